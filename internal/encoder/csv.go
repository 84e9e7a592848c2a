package encoder

import (
	"encoding/csv"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

var csvHeader = []string{"id", "name"}

type CsvEncoder struct {
	writer    io.Writer
	logger    *zap.SugaredLogger
	separator rune
	open      bool
}

func (enc *CsvEncoder) Close() error {
	if !enc.open {
		return enc.Open()
	}
	return nil
}

func (enc *CsvEncoder) Write(heroes []hero.Hero) (int, error) {
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

// Open writes the header line.
func (enc *CsvEncoder) Open() error {
	enc.open = true
	writer := enc.csvWriter()
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func (enc *CsvEncoder) encode(heroes []hero.Hero) (int, error) {
	writer := enc.csvWriter()

	written := 0
	for _, h := range heroes {
		r := []string{strconv.Itoa(h.ID), h.Name}
		for _, col := range r {
			written += len([]byte(col))
		}
		if err := writer.Write(r); err != nil {
			return 0, err
		}
	}

	writer.Flush()
	return written, writer.Error()
}

func (enc *CsvEncoder) csvWriter() *csv.Writer {
	writer := csv.NewWriter(enc.writer)
	writer.Comma = enc.separator
	return writer
}
