package encoder

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

// HeroWriter writes heroes in some output format. Close finishes the document, it does not close
// the underlying writer.
type HeroWriter interface {
	io.Closer
	Write(heroes []hero.Hero) (int, error)
}

func NewHeroEncoder(format string, writer io.Writer, logger *zap.SugaredLogger) (HeroWriter, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return &JSONEncoder{writer: writer, logger: logger}, nil
	case "ndjson":
		return NewNDJsonEncoder(writer, logger), nil
	case "csv":
		return &CsvEncoder{writer: writer, logger: logger, separator: ','}, nil
	case "tsv":
		return &CsvEncoder{writer: writer, logger: logger, separator: '\t'}, nil
	default:
		return nil, errors.Errorf("unsupported output format '%s'", format)
	}
}
