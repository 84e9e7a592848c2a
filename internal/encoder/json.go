package encoder

import (
	"io"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

type JSONEncoder struct {
	writer           io.Writer
	logger           *zap.SugaredLogger
	open             bool
	firstHeroWritten bool
}

func (enc *JSONEncoder) Close() error {
	if !enc.open {
		if err := enc.Open(); err != nil {
			return err
		}
	}
	_, err := enc.writer.Write([]byte("]\n"))
	return err
}

func (enc *JSONEncoder) Write(heroes []hero.Hero) (int, error) {
	if len(heroes) == 0 {
		return 0, nil
	}

	if !enc.open {
		err := enc.Open()
		if err != nil {
			return 0, err
		}
	}

	return enc.encode(heroes)
}

func (enc *JSONEncoder) encode(heroes []hero.Hero) (int, error) {
	written := 0
	for _, h := range heroes {
		if enc.firstHeroWritten {
			w, err := enc.writer.Write([]byte(","))
			if err != nil {
				return 0, err
			}
			written += w
		} else {
			enc.firstHeroWritten = true
		}

		bytes, err := json.Marshal(h)
		if err != nil {
			return 0, err
		}
		w, err := enc.writer.Write(bytes)
		if err != nil {
			return 0, err
		}

		written += w
	}

	return written, nil
}

func (enc *JSONEncoder) Open() error {
	enc.open = true

	_, err := enc.writer.Write([]byte("["))
	return err
}
