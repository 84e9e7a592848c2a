package conf

import "github.com/mimiro-io/heroes-datalayer/internal/hero"

// HeroesConfig is the configuration document served to the in-memory heroes API. Heroes is the
// seed the store is reset to whenever the document changes.
type HeroesConfig struct {
	Id     string      `json:"id"`
	Heroes []hero.Hero `json:"heroes"`
}
