package encoder

import (
	"io"

	"github.com/olivere/ndjson"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

// NDJsonEncoder writes one hero per line.
type NDJsonEncoder struct {
	writer *ndjson.Writer
	logger *zap.SugaredLogger
}

func NewNDJsonEncoder(writer io.Writer, logger *zap.SugaredLogger) *NDJsonEncoder {
	return &NDJsonEncoder{writer: ndjson.NewWriter(writer), logger: logger}
}

func (enc *NDJsonEncoder) Write(heroes []hero.Hero) (int, error) {
	for i, h := range heroes {
		if err := enc.writer.Encode(h); err != nil {
			return i, err
		}
	}
	return len(heroes), nil
}

func (enc *NDJsonEncoder) Close() error {
	return nil
}
