package conf

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Env struct {
	Logger          *zap.SugaredLogger
	Env             string
	Port            string
	ConfigLocation  string
	RefreshInterval string
	ServiceName     string
	AgentHost       string
	HeroesBaseURL   string
	HTTPTimeout     time.Duration
	HTTPRetryCount  int
	OutputFormat    string
}

func init() {
	viper.SetDefault("GO_ENV", "local")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("SERVICE_NAME", "heroes-datalayer")
	viper.SetDefault("CONFIG_LOCATION", "file://resources/default-config.json")
	viper.SetDefault("CONFIG_REFRESH_INTERVAL", "@every 60s")
	viper.SetDefault("HEROES_BASE_URL", "http://localhost:8080/api/heroes")
	viper.SetDefault("HTTP_TIMEOUT", "10s")
	viper.SetDefault("HTTP_RETRY_COUNT", 0)
	viper.SetDefault("OUTPUT_FORMAT", "json")
	viper.AutomaticEnv()
}

// NewEnv reads the environment. The logger is created first so that everything after can report
// about misconfigured values.
func NewEnv() *Env {
	logger := NewLogger(viper.GetString("SERVICE_NAME"), viper.GetString("LOG_LEVEL"))

	timeout, err := cast.ToDurationE(viper.GetString("HTTP_TIMEOUT"))
	if err != nil {
		logger.Warnf("Invalid HTTP_TIMEOUT %q, using 10s", viper.GetString("HTTP_TIMEOUT"))
		timeout = 10 * time.Second
	}
	retries, err := cast.ToIntE(viper.Get("HTTP_RETRY_COUNT"))
	if err != nil || retries < 0 {
		logger.Warnf("Invalid HTTP_RETRY_COUNT %v, not retrying", viper.Get("HTTP_RETRY_COUNT"))
		retries = 0
	}

	env := &Env{
		Logger:          logger,
		Env:             viper.GetString("GO_ENV"),
		Port:            viper.GetString("SERVER_PORT"),
		ConfigLocation:  viper.GetString("CONFIG_LOCATION"),
		RefreshInterval: viper.GetString("CONFIG_REFRESH_INTERVAL"),
		ServiceName:     viper.GetString("SERVICE_NAME"),
		AgentHost:       viper.GetString("DD_AGENT_HOST"),
		HeroesBaseURL:   strings.TrimRight(viper.GetString("HEROES_BASE_URL"), "/"),
		HTTPTimeout:     timeout,
		HTTPRetryCount:  retries,
		OutputFormat:    strings.ToLower(viper.GetString("OUTPUT_FORMAT")),
	}

	logger.Infof("Config location: %s", env.ConfigLocation)
	logger.Debugf("Heroes base url: %s", env.HeroesBaseURL)

	return env
}
