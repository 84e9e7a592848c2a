package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DataDog/datadog-go/statsd"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
	"github.com/mimiro-io/heroes-datalayer/internal/hero"
)

const messagePrefix = "HeroService: "

// Logger receives the human readable outcome of every gateway call.
type Logger interface {
	Add(message string)
}

// Transport is the http capability the gateway needs. *httpclient.Client from heimdall satisfies it.
type Transport interface {
	Get(url string, headers http.Header) (*http.Response, error)
	Post(url string, body io.Reader, headers http.Header) (*http.Response, error)
	Put(url string, body io.Reader, headers http.Header) (*http.Response, error)
	Delete(url string, headers http.Header) (*http.Response, error)
}

// Ack acknowledges a successful update. Body is whatever the remote store answered with, and may
// be empty.
type Ack struct {
	Status int
	Body   []byte
}

// HeroGateway performs the CRUD calls against the heroes API. None of its operations return an
// error: failures are logged and replaced by the fallback documented on each operation.
type HeroGateway struct {
	baseURL   string
	transport Transport
	messages  Logger
	logger    *zap.SugaredLogger
	statsd    statsd.ClientInterface
}

func NewHeroGateway(env *conf.Env, transport Transport, messages Logger, statsd statsd.ClientInterface) *HeroGateway {
	return &HeroGateway{
		baseURL:   strings.TrimRight(env.HeroesBaseURL, "/"),
		transport: transport,
		messages:  messages,
		logger:    env.Logger.Named("gateway"),
		statsd:    statsd,
	}
}

// GetHeroes fetches all heroes. Falls back to an empty slice.
func (g *HeroGateway) GetHeroes() []hero.Hero {
	heroes, err := g.getList(g.baseURL)
	if err != nil {
		return handleError(g, "getHeroes", err, make([]hero.Hero, 0))
	}
	g.log("fetched heroes")
	return heroes
}

// GetHero fetches a single hero by id. A json null body resolves to nil as well. Falls back to nil.
func (g *HeroGateway) GetHero(id int) *hero.Hero {
	res, err := g.checked(g.heroURL(id))(g.transport.Get(g.heroURL(id), acceptHeaders()))
	if err != nil {
		return handleError[*hero.Hero](g, fmt.Sprintf("getHero id=%d", id), err, nil)
	}
	defer res.Body.Close()

	var h *hero.Hero
	if err := json.NewDecoder(res.Body).Decode(&h); err != nil {
		return handleError[*hero.Hero](g, fmt.Sprintf("getHero id=%d", id), errors.Wrap(err, "malformed hero"), nil)
	}
	g.log(fmt.Sprintf("fetched hero with id=%d", id))
	return h
}

// AddHero creates h on the remote store and returns it with the assigned id. Any id already set on
// h is not sent. Falls back to nil.
func (g *HeroGateway) AddHero(h hero.Hero) *hero.Hero {
	body, err := json.Marshal(hero.Hero{Name: h.Name})
	if err != nil {
		return handleError[*hero.Hero](g, "addHero", err, nil)
	}
	res, err := g.checked(g.baseURL)(g.transport.Post(g.baseURL, bytes.NewReader(body), jsonHeaders()))
	if err != nil {
		return handleError[*hero.Hero](g, "addHero", err, nil)
	}
	defer res.Body.Close()

	added := &hero.Hero{}
	if err := json.NewDecoder(res.Body).Decode(added); err != nil {
		return handleError[*hero.Hero](g, "addHero", errors.Wrap(err, "malformed hero"), nil)
	}
	g.log(fmt.Sprintf("added hero w/ id=%d", added.ID))
	return added
}

// UpdateHero replaces the stored hero with the same id. Falls back to nil.
func (g *HeroGateway) UpdateHero(h hero.Hero) *Ack {
	body, err := json.Marshal(h)
	if err != nil {
		return handleError[*Ack](g, "updateHero", err, nil)
	}
	res, err := g.checked(g.baseURL)(g.transport.Put(g.baseURL, bytes.NewReader(body), jsonHeaders()))
	if err != nil {
		return handleError[*Ack](g, "updateHero", err, nil)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return handleError[*Ack](g, "updateHero", err, nil)
	}
	g.log(fmt.Sprintf("updated hero id=%d", h.ID))
	return &Ack{Status: res.StatusCode, Body: payload}
}

// DeleteHero removes h from the remote store. Falls back to nil.
func (g *HeroGateway) DeleteHero(h hero.Hero) *hero.Hero {
	return g.DeleteHeroByID(h.ID)
}

// DeleteHeroByID removes the hero with the given id. A response without a body resolves with a hero
// carrying only the id. Falls back to nil.
func (g *HeroGateway) DeleteHeroByID(id int) *hero.Hero {
	res, err := g.checked(g.heroURL(id))(g.transport.Delete(g.heroURL(id), jsonHeaders()))
	if err != nil {
		return handleError[*hero.Hero](g, "deleteHero", err, nil)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return handleError[*hero.Hero](g, "deleteHero", err, nil)
	}
	deleted := &hero.Hero{ID: id}
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, deleted); err != nil {
			return handleError[*hero.Hero](g, "deleteHero", errors.Wrap(err, "malformed hero"), nil)
		}
	}
	g.log(fmt.Sprintf("deleted hero /w id=%d", id))
	return deleted
}

// SearchHeroes finds heroes whose name contains term. A blank term returns an empty slice without
// calling the remote store. Falls back to an empty slice.
func (g *HeroGateway) SearchHeroes(term string) []hero.Hero {
	if strings.TrimSpace(term) == "" {
		return make([]hero.Hero, 0)
	}
	heroes, err := g.getList(g.baseURL + "/?name=" + url.QueryEscape(term))
	if err != nil {
		return handleError(g, "searchHeroes", err, make([]hero.Hero, 0))
	}
	g.log(fmt.Sprintf("fetched hero(s) matching %s", term))
	return heroes
}

func (g *HeroGateway) getList(target string) ([]hero.Hero, error) {
	res, err := g.checked(target)(g.transport.Get(target, acceptHeaders()))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return hero.ParseAll(res.Body)
}

func (g *HeroGateway) heroURL(id int) string {
	return fmt.Sprintf("%s/%d", g.baseURL, id)
}

// checked turns any non 2xx answer into an error, so callers only deal with a readable body or a failure.
func (g *HeroGateway) checked(target string) func(res *http.Response, err error) (*http.Response, error) {
	return func(res *http.Response, err error) (*http.Response, error) {
		if err != nil {
			if res != nil && res.Body != nil {
				_ = res.Body.Close()
			}
			return nil, errors.Wrapf(err, "http failure response for %s", target)
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, res.Body)
			_ = res.Body.Close()
			return nil, errors.Errorf("http failure response for %s: %s", target, res.Status)
		}
		return res, nil
	}
}

func (g *HeroGateway) log(message string) {
	g.messages.Add(messagePrefix + message)
}

// handleError reports a failed operation and hands back the fallback result.
func handleError[T any](g *HeroGateway, operation string, err error, result T) T {
	g.logger.Errorw("Hero operation failed", "operation", operation, "error", err)
	_ = g.statsd.Incr("gateway.failures", []string{"operation:" + strings.Fields(operation)[0]}, 1)
	g.log(fmt.Sprintf("%s failed: %s", operation, err.Error()))
	return result
}

func acceptHeaders() http.Header {
	return http.Header{"Accept": []string{"application/json"}}
}

func jsonHeaders() http.Header {
	headers := acceptHeaders()
	headers.Set("Content-Type", "application/json")
	return headers
}
