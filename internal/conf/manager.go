package conf

import (
	"context"
	"crypto/md5"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bamzi/jobrunner"
	json "github.com/goccy/go-json"
	"github.com/gojektech/heimdall/v6/httpclient"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ConfigurationManager struct {
	configLocation  string
	refreshInterval string
	Heroes          *HeroesConfig
	logger          *zap.SugaredLogger
	State           State
	lock            sync.Mutex
	listeners       []func(config *HeroesConfig)
}

type State struct {
	Timestamp int64
	Digest    [16]byte
}

func NewConfigurationManager(lc fx.Lifecycle, env *Env) *ConfigurationManager {
	config := &ConfigurationManager{
		configLocation:  env.ConfigLocation,
		refreshInterval: env.RefreshInterval,
		Heroes:          &HeroesConfig{},
		logger:          env.Logger.Named("configuration"),
		State: State{
			Timestamp: time.Now().Unix(),
		},
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			config.Init()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			jobrunner.Stop()
			return nil
		},
	})

	return config
}

// Subscribe registers a callback that receives every new configuration, starting with the first
// successful load.
func (conf *ConfigurationManager) Subscribe(listener func(config *HeroesConfig)) {
	conf.lock.Lock()
	defer conf.lock.Unlock()
	conf.listeners = append(conf.listeners, listener)
}

func (conf *ConfigurationManager) Init() {
	conf.logger.Infof("Starting the ConfigurationManager with refresh %s", conf.refreshInterval)
	conf.load()
	conf.logger.Info("Done loading the config")
	jobrunner.Start()
	err := jobrunner.Schedule(conf.refreshInterval, conf)
	if err != nil {
		conf.logger.Warnw("Could not start configuration reload job", "error", err)
	}
}

// Run is called by jobrunner on every refresh tick.
func (conf *ConfigurationManager) Run() {
	conf.load()
}

func (conf *ConfigurationManager) load() {
	var configContent []byte
	var err error
	if strings.HasPrefix(conf.configLocation, "file://") {
		configContent, err = conf.loadFile(conf.configLocation)
	} else if strings.HasPrefix(conf.configLocation, "http") {
		var c []byte
		c, err = conf.loadUrl(conf.configLocation)
		if err == nil {
			configContent, err = unpackContent(c)
		}
	} else {
		conf.logger.Errorf("Config file location not supported: %s", conf.configLocation)
		configContent, err = conf.loadFile("file://resources/default-config.json")
	}
	if err != nil {
		conf.logger.Warnw("Keeping previous configuration", "location", conf.configLocation, "error", err)
		return
	}

	if len(configContent) == 0 {
		conf.logger.Infof("No values read for %s", conf.configLocation)
		return
	}

	state := State{
		Timestamp: time.Now().Unix(),
		Digest:    md5.Sum(configContent),
	}

	conf.lock.Lock()
	if state.Digest == conf.State.Digest {
		conf.lock.Unlock()
		return
	}
	config, err := conf.parse(configContent)
	if err != nil {
		conf.lock.Unlock()
		conf.logger.Warnw("Unable to parse json into config. Please check file: "+conf.configLocation, "error", err)
		return
	}
	conf.Heroes = config
	conf.State = state
	listeners := make([]func(config *HeroesConfig), len(conf.listeners))
	copy(listeners, conf.listeners)
	conf.lock.Unlock()

	conf.logger.Infof("Updated configuration with %d heroes", len(config.Heroes))
	for _, listener := range listeners {
		listener(config)
	}
}

func (conf *ConfigurationManager) loadUrl(configEndpoint string) ([]byte, error) {
	timeout := 10000 * time.Millisecond
	client := httpclient.NewClient(httpclient.WithHTTPTimeout(timeout), httpclient.WithRetryCount(3))

	resp, err := client.Get(configEndpoint, http.Header{"Accept": []string{"application/json"}})
	if resp != nil {
		defer func() {
			_ = resp.Body.Close()
		}()
	}
	if err != nil {
		conf.logger.Errorw("Unable to open config url: "+configEndpoint, "error", err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		conf.logger.Infof("Endpoint returned %s", resp.Status)
		return nil, errors.Errorf("config endpoint %s returned %s", configEndpoint, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

type content struct {
	Id   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// unpackContent accepts both a bare configuration document and one wrapped in a "data" envelope.
func unpackContent(themBytes []byte) ([]byte, error) {
	unpacked := &content{}
	err := json.Unmarshal(themBytes, unpacked)
	if err != nil {
		return nil, errors.Wrap(err, "unreadable config envelope")
	}
	if len(unpacked.Data) == 0 || string(unpacked.Data) == "null" {
		return themBytes, nil
	}
	return unpacked.Data, nil
}

func (conf *ConfigurationManager) loadFile(location string) ([]byte, error) {
	configFileName := strings.ReplaceAll(location, "file://", "")

	configFile, err := os.Open(configFileName)
	if err != nil {
		conf.logger.Errorw("Unable to open config file: "+configFileName, "error", err)
		return nil, err
	}
	defer configFile.Close()
	return io.ReadAll(configFile)
}

func (conf *ConfigurationManager) parse(config []byte) (*HeroesConfig, error) {
	configuration := &HeroesConfig{}
	err := json.Unmarshal(config, configuration)
	if err != nil {
		return nil, err
	}
	for _, h := range configuration.Heroes {
		if h.IsNew() {
			return nil, errors.Errorf("seed hero %q has no id", h.Name)
		}
	}
	return configuration, nil
}
