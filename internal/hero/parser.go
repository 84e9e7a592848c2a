package hero

import (
	"bufio"
	"io"

	"github.com/bcicen/jstream"
	"github.com/pkg/errors"
)

// ParseStream decodes a json array of heroes from reader, handing them to emitHeroes in batches
// of batchSize. Anything else than an array at the top level is an error.
func ParseStream(reader io.Reader, emitHeroes func(heroes []Hero) error, batchSize int) error {
	buffered := bufio.NewReader(reader)
	if err := expectArray(buffered); err != nil {
		return err
	}

	decoder := jstream.NewDecoder(buffered, 1)
	read := 0
	heroes := make([]Hero, 0)

	// the decoder goroutine only exits once its channel is drained, so keep reading after a failure
	var failed error
	for mv := range decoder.Stream() {
		if failed != nil {
			continue
		}
		h, err := asHero(mv)
		if err != nil {
			failed = err
			continue
		}
		heroes = append(heroes, h)
		read++
		if read == batchSize {
			read = 0
			if err := emitHeroes(heroes); err != nil {
				failed = err
				continue
			}
			heroes = make([]Hero, 0)
		}
	}
	if failed != nil {
		return failed
	}
	if err := decoder.Err(); err != nil {
		return errors.Wrap(err, "malformed hero list")
	}

	if read > 0 {
		// leftovers
		return emitHeroes(heroes)
	}

	return nil
}

// ParseAll reads a complete hero array. The result is never nil.
func ParseAll(reader io.Reader) ([]Hero, error) {
	all := make([]Hero, 0)
	err := ParseStream(reader, func(heroes []Hero) error {
		all = append(all, heroes...)
		return nil
	}, 1000)
	if err != nil {
		return make([]Hero, 0), err
	}
	return all, nil
}

func expectArray(reader *bufio.Reader) error {
	for {
		b, err := reader.ReadByte()
		if err == io.EOF {
			return errors.New("empty body, expected a hero list")
		}
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return reader.UnreadByte()
		default:
			return errors.Errorf("expected a hero list, got '%c'", b)
		}
	}
}

func asHero(value *jstream.MetaValue) (Hero, error) {
	raw, ok := value.Value.(map[string]interface{})
	if !ok {
		return Hero{}, errors.Errorf("expected a hero object at offset %d", value.Offset)
	}
	h := Hero{}
	if id, ok := raw["id"]; ok && id != nil {
		f, ok := id.(float64)
		if !ok || f != float64(int(f)) {
			return Hero{}, errors.Errorf("invalid hero id %v", id)
		}
		h.ID = int(f)
	}
	if name, ok := raw["name"]; ok && name != nil {
		s, ok := name.(string)
		if !ok {
			return Hero{}, errors.Errorf("invalid hero name %v", name)
		}
		h.Name = s
	}
	return h, nil
}
