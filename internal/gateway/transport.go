package gateway

import (
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/gojektech/heimdall/v6"
	"github.com/gojektech/heimdall/v6/httpclient"

	"github.com/mimiro-io/heroes-datalayer/internal/conf"
)

// NewTransport builds the heimdall client used against the heroes API. Retries are off unless
// HTTP_RETRY_COUNT says otherwise.
func NewTransport(env *conf.Env, statsd statsd.ClientInterface) *httpclient.Client {
	opts := []httpclient.Option{
		httpclient.WithHTTPTimeout(env.HTTPTimeout),
		httpclient.WithRetryCount(env.HTTPRetryCount),
	}
	if env.HTTPRetryCount > 0 {
		backoff := heimdall.NewConstantBackoff(100*time.Millisecond, 50*time.Millisecond)
		opts = append(opts, httpclient.WithRetrier(heimdall.NewRetrier(backoff)))
	}

	client := httpclient.NewClient(opts...)
	client.AddPlugin(NewRequestPlugin(env.Logger, statsd))
	return client
}
