package gateway

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
)

const testBase = "http://heroes.test/api/heroes"

type call struct {
	method  string
	url     string
	headers http.Header
	body    string
}

// fakeTransport records every call and answers with the configured status and body, or fails
// with err when set.
type fakeTransport struct {
	lock   sync.Mutex
	calls  []call
	status int
	body   string
	err    error
}

func (f *fakeTransport) Get(url string, headers http.Header) (*http.Response, error) {
	return f.respond(http.MethodGet, url, nil, headers)
}

func (f *fakeTransport) Post(url string, body io.Reader, headers http.Header) (*http.Response, error) {
	return f.respond(http.MethodPost, url, body, headers)
}

func (f *fakeTransport) Put(url string, body io.Reader, headers http.Header) (*http.Response, error) {
	return f.respond(http.MethodPut, url, body, headers)
}

func (f *fakeTransport) Delete(url string, headers http.Header) (*http.Response, error) {
	return f.respond(http.MethodDelete, url, nil, headers)
}

func (f *fakeTransport) respond(method string, url string, body io.Reader, headers http.Header) (*http.Response, error) {
	c := call{method: method, url: url, headers: headers}
	if body != nil {
		b, _ := io.ReadAll(body)
		c.body = string(b)
	}
	f.lock.Lock()
	f.calls = append(f.calls, c)
	f.lock.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{},
	}, nil
}

func (f *fakeTransport) Calls() []call {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeLogger struct {
	lock     sync.Mutex
	messages []string
}

func (l *fakeLogger) Add(message string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.messages = append(l.messages, message)
}

func (l *fakeLogger) Messages() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]string(nil), l.messages...)
}

var errUnreachable = errors.New("connection refused")

func testEnv(base string) *conf.Env {
	return &conf.Env{
		Logger:        zap.NewNop().Sugar(),
		HeroesBaseURL: base,
	}
}

func newTestGateway(transport Transport) (*HeroGateway, *fakeLogger) {
	logger := &fakeLogger{}
	return NewHeroGateway(testEnv(testBase), transport, logger, &statsd.NoOpClient{}), logger
}
