package gateway

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

func TestTransportAgainstServer(t *testing.T) {
	var lock sync.Mutex
	var seen []*http.Request
	handler := http.NewServeMux()
	handler.HandleFunc("/api/heroes/11", func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		seen = append(seen, r)
		lock.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 11, "name": "Dr Nice"}`))
	})
	handler.HandleFunc("/api/heroes/12", func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		seen = append(seen, r)
		lock.Unlock()
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	env := testEnv(srv.URL + "/api/heroes/")
	env.HTTPTimeout = 2 * time.Second
	logger := &fakeLogger{}
	noop := &statsd.NoOpClient{}
	gw := NewHeroGateway(env, NewTransport(env, noop), logger, noop)

	h := gw.GetHero(11)
	require.NotNil(t, h)
	assert.Equal(t, hero.Hero{ID: 11, Name: "Dr Nice"}, *h)

	assert.Nil(t, gw.GetHero(12))
	require.Len(t, seen, 2, "no retries by default")

	id := seen[0].Header.Get(RequestIdHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "requests carry a uuid request id")
	assert.NotEqual(t, id, seen[1].Header.Get(RequestIdHeader))
	assert.Equal(t, "application/json", seen[0].Header.Get("Accept"))

	messages := logger.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "HeroService: fetched hero with id=11", messages[0])
	assert.Contains(t, messages[1], "HeroService: getHero id=12 failed: http failure response for "+srv.URL+"/api/heroes/12: 404 Not Found")
}

func TestTransportUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/heroes"
	srv.Close()

	env := testEnv(base)
	env.HTTPTimeout = time.Second
	logger := &fakeLogger{}
	noop := &statsd.NoOpClient{}
	gw := NewHeroGateway(env, NewTransport(env, noop), logger, noop)

	heroes := gw.GetHeroes()
	assert.NotNil(t, heroes)
	assert.Empty(t, heroes)
	require.Len(t, logger.Messages(), 1)
	assert.Contains(t, logger.Messages()[0], "HeroService: getHeroes failed: ")
}
