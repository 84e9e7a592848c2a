package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIdHeader = "X-Request-Id"

type ctxKey string

const reqTime ctxKey = "request_time_start"

// RequestPlugin is a heimdall plugin tagging outgoing requests with a request id and reporting
// their timing.
type RequestPlugin struct {
	logger *zap.SugaredLogger
	statsd statsd.ClientInterface
}

func NewRequestPlugin(logger *zap.SugaredLogger, statsd statsd.ClientInterface) *RequestPlugin {
	return &RequestPlugin{
		logger: logger.Named("transport"),
		statsd: statsd,
	}
}

func (p *RequestPlugin) OnRequestStart(req *http.Request) {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	// heimdall calls this once per attempt, a retried request keeps its id
	if req.Header.Get(RequestIdHeader) == "" {
		req.Header.Set(RequestIdHeader, uuid.New().String())
	}
	ctx := context.WithValue(req.Context(), reqTime, time.Now())
	*req = *req.WithContext(ctx)
}

func (p *RequestPlugin) OnRequestEnd(req *http.Request, res *http.Response) {
	timed := p.since(req)
	tags := []string{
		"method:" + req.Method,
		"status:" + strconv.Itoa(res.StatusCode),
	}
	_ = p.statsd.Timing("gateway.request.time", timed, tags, 1)
	p.logger.Debugw("Request done",
		"method", req.Method,
		"url", req.URL.String(),
		"status", res.StatusCode,
		"requestId", req.Header.Get(RequestIdHeader),
		"elapsed", timed)
}

func (p *RequestPlugin) OnError(req *http.Request, err error) {
	timed := p.since(req)
	_ = p.statsd.Timing("gateway.request.time", timed, []string{"method:" + req.Method, "status:error"}, 1)
	p.logger.Debugw("Request error",
		"method", req.Method,
		"url", req.URL.String(),
		"requestId", req.Header.Get(RequestIdHeader),
		"error", err)
}

func (p *RequestPlugin) since(req *http.Request) time.Duration {
	start, ok := req.Context().Value(reqTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}
