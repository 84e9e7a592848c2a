package store

import (
	"testing"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/franela/goblin"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

func TestMemoryStore(t *testing.T) {
	g := goblin.Goblin(t)
	g.Describe("The memory store", func() {
		var s *MemoryStore
		g.BeforeEach(func() {
			s = NewMemoryStore(zap.NewNop().Sugar(), &statsd.NoOpClient{})
		})

		g.It("Should start ids at 11", func() {
			h, err := s.Add(hero.Hero{Name: "first"})
			g.Assert(err).IsNil()
			g.Assert(h.ID).Eql(11)
		})
		g.It("Should assign the highest id plus one", func() {
			s.Reset([]hero.Hero{{ID: 12, Name: "a"}, {ID: 30, Name: "b"}})
			h, _ := s.Add(hero.Hero{Name: "c"})
			g.Assert(h.ID).Eql(31)
		})
		g.It("Should reject taken ids", func() {
			s.Reset([]hero.Hero{{ID: 12, Name: "a"}})
			_, err := s.Add(hero.Hero{ID: 12, Name: "b"})
			g.Assert(err).Eql(ErrConflict)
		})
		g.It("Should list heroes ordered by id", func() {
			s.Reset([]hero.Hero{{ID: 20, Name: "b"}, {ID: 11, Name: "a"}})
			g.Assert(s.List()).Eql([]hero.Hero{{ID: 11, Name: "a"}, {ID: 20, Name: "b"}})
		})
		g.It("Should update and get heroes", func() {
			s.Reset([]hero.Hero{{ID: 11, Name: "a"}})
			g.Assert(s.Update(hero.Hero{ID: 11, Name: "z"})).IsNil()
			h, err := s.Get(11)
			g.Assert(err).IsNil()
			g.Assert(h.Name).Eql("z")
		})
		g.It("Should report missing heroes", func() {
			_, err := s.Get(42)
			g.Assert(err).Eql(ErrNotFound)
			g.Assert(s.Update(hero.Hero{ID: 42})).Eql(ErrNotFound)
			_, err = s.Delete(42)
			g.Assert(err).Eql(ErrNotFound)
		})
		g.It("Should delete heroes", func() {
			s.Reset([]hero.Hero{{ID: 11, Name: "a"}, {ID: 12, Name: "b"}})
			h, err := s.Delete(11)
			g.Assert(err).IsNil()
			g.Assert(h.Name).Eql("a")
			g.Assert(len(s.List())).Eql(1)
		})
		g.It("Should search case insensitively", func() {
			s.Reset([]hero.Hero{{ID: 15, Name: "Magneta"}, {ID: 19, Name: "Magma"}, {ID: 20, Name: "Tornado"}})
			g.Assert(len(s.Search("MAG"))).Eql(2)
			g.Assert(s.Search("nado")).Eql([]hero.Hero{{ID: 20, Name: "Tornado"}})
			g.Assert(len(s.Search("  "))).Eql(3)
			g.Assert(len(s.Search("xyz"))).Eql(0)
		})
	})
}
