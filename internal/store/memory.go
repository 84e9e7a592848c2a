package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

// firstId is handed out when the collection is empty.
const firstId = 11

type MemoryStore struct {
	statsd statsd.ClientInterface
	logger *zap.SugaredLogger
	heroes map[int]hero.Hero
	lock   *sync.RWMutex
}

// NewHeroStore creates an empty store and keeps it seeded from the configuration manager.
func NewHeroStore(logger *zap.SugaredLogger, config *conf.ConfigurationManager, statsd statsd.ClientInterface) HeroStore {
	s := NewMemoryStore(logger, statsd)
	config.Subscribe(func(c *conf.HeroesConfig) {
		s.Reset(c.Heroes)
	})
	return s
}

func NewMemoryStore(logger *zap.SugaredLogger, statsd statsd.ClientInterface) *MemoryStore {
	return &MemoryStore{
		statsd: statsd,
		logger: logger.Named("storage"),
		heroes: make(map[int]hero.Hero),
		lock:   &sync.RWMutex{},
	}
}

// List returns all heroes ordered by id.
func (s *MemoryStore) List() []hero.Hero {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.sorted(func(hero.Hero) bool { return true })
}

func (s *MemoryStore) Get(id int) (hero.Hero, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	h, ok := s.heroes[id]
	if !ok {
		return hero.Hero{}, ErrNotFound
	}
	return h, nil
}

// Add stores h. A hero without id gets the next free one, a hero with an id that is taken is a
// conflict.
func (s *MemoryStore) Add(h hero.Hero) (hero.Hero, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if h.IsNew() {
		h.ID = s.genId()
	} else if _, ok := s.heroes[h.ID]; ok {
		return hero.Hero{}, ErrConflict
	}
	s.heroes[h.ID] = h
	s.gauge()
	s.logger.Debugf("Added hero %s", h)
	return h, nil
}

func (s *MemoryStore) Update(h hero.Hero) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.heroes[h.ID]; !ok {
		return ErrNotFound
	}
	s.heroes[h.ID] = h
	s.logger.Debugf("Updated hero %s", h)
	return nil
}

func (s *MemoryStore) Delete(id int) (hero.Hero, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	h, ok := s.heroes[id]
	if !ok {
		return hero.Hero{}, ErrNotFound
	}
	delete(s.heroes, id)
	s.gauge()
	s.logger.Debugf("Deleted hero %s", h)
	return h, nil
}

// Search returns the heroes whose name contains name, ignoring case. A blank name matches all.
func (s *MemoryStore) Search(name string) []hero.Hero {
	folder := cases.Fold()
	term := folder.String(strings.TrimSpace(name))

	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.sorted(func(h hero.Hero) bool {
		return strings.Contains(folder.String(h.Name), term)
	})
}

// Reset replaces the whole collection.
func (s *MemoryStore) Reset(seed []hero.Hero) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.heroes = make(map[int]hero.Hero, len(seed))
	for _, h := range seed {
		s.heroes[h.ID] = h
	}
	s.gauge()
	s.logger.Infof("Store reset with %d heroes", len(s.heroes))
}

// genId must be called with the write lock held.
func (s *MemoryStore) genId() int {
	if len(s.heroes) == 0 {
		return firstId
	}
	highest := 0
	for id := range s.heroes {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (s *MemoryStore) sorted(keep func(h hero.Hero) bool) []hero.Hero {
	res := make([]hero.Hero, 0, len(s.heroes))
	for _, h := range s.heroes {
		if keep(h) {
			res = append(res, h)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

func (s *MemoryStore) gauge() {
	_ = s.statsd.Gauge("store.heroes", float64(len(s.heroes)), nil, 1)
}
