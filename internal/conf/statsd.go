package conf

import (
	"github.com/DataDog/datadog-go/statsd"
)

// NewStatsd connects to the datadog agent when DD_AGENT_HOST is set, and otherwise hands out a
// client that drops everything.
func NewStatsd(env *Env) (statsd.ClientInterface, error) {
	if env.AgentHost == "" {
		env.Logger.Debug("Statsd is disabled, no agent host configured")
		return &statsd.NoOpClient{}, nil
	}

	client, err := statsd.New(env.AgentHost, statsd.WithNamespace(env.ServiceName+"."), statsd.WithTags([]string{
		"application:" + env.ServiceName,
	}))
	if err != nil {
		return nil, err
	}
	env.Logger.Infof("Statsd is configured on: %s", env.AgentHost)
	return client, nil
}
