package encoder_test

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/encoder"
	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

func encodeTwice(format string, heroes []hero.Hero) ([]byte, error) {
	return encodeBatches(format, heroes, heroes)
}

func encodeOnce(format string, heroes []hero.Hero) ([]byte, error) {
	return encodeBatches(format, heroes)
}

func encodeBatches(format string, batches ...[]hero.Hero) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc, err := encoder.NewHeroEncoder(format, buf, zap.NewNop().Sugar())
	if err != nil {
		return nil, err
	}
	for _, batch := range batches {
		if _, err := enc.Write(batch); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
