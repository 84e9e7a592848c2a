package store

import (
	"errors"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

var (
	ErrNotFound = errors.New("hero not found")
	ErrConflict = errors.New("hero already exists")
)

// HeroStore is the backing collection served by the heroes API.
type HeroStore interface {
	List() []hero.Hero
	Get(id int) (hero.Hero, error)
	Add(h hero.Hero) (hero.Hero, error)
	Update(h hero.Hero) error
	Delete(id int) (hero.Hero, error)
	Search(name string) []hero.Hero
	Reset(seed []hero.Hero)
}
