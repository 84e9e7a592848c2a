package conf

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testConfig = "file://../../resources/test/test-config.json"

func TestLoadFile(t *testing.T) {
	cmgr := ConfigurationManager{
		logger: zap.NewNop().Sugar(),
	}

	_, err := cmgr.loadFile(testConfig)
	require.NoError(t, err)
}

func TestLoadUrl(t *testing.T) {
	srv := serverMock()
	defer srv.Close()

	cmgr := ConfigurationManager{
		logger: zap.NewNop().Sugar(),
	}

	res, err := cmgr.loadUrl(fmt.Sprintf("%s/test/config.json", srv.URL))
	require.NoError(t, err)
	assert.Contains(t, string(res), "Bombasto")

	_, err = cmgr.loadUrl(fmt.Sprintf("%s/missing.json", srv.URL))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	cmgr := ConfigurationManager{
		logger: zap.NewNop().Sugar(),
	}

	res, err := cmgr.loadFile(testConfig)
	require.NoError(t, err)

	config, err := cmgr.parse(res)
	require.NoError(t, err)
	assert.Equal(t, "test-heroes", config.Id)
	assert.Len(t, config.Heroes, 3)
	assert.Equal(t, 13, config.Heroes[2].ID)

	_, err = cmgr.parse([]byte(`{"heroes": [{"name": "no id"}]}`))
	assert.Error(t, err)
}

func TestUnpackContent(t *testing.T) {
	wrapped, err := unpackContent([]byte(`{"id": "x", "data": {"id": "inner", "heroes": []}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "inner", "heroes": []}`, string(wrapped))

	bare, err := unpackContent([]byte(`{"id": "bare", "heroes": []}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "bare", "heroes": []}`, string(bare))
}

func TestLoadNotifiesOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"id": "a", "heroes": [{"id": 1, "name": "one"}]}`), 0o644))

	cmgr := ConfigurationManager{
		configLocation: "file://" + file,
		Heroes:         &HeroesConfig{},
		logger:         zap.NewNop().Sugar(),
	}
	var received []*HeroesConfig
	cmgr.Subscribe(func(config *HeroesConfig) {
		received = append(received, config)
	})

	cmgr.load()
	cmgr.load()
	require.Len(t, received, 1, "unchanged content should not be published twice")
	assert.Equal(t, "one", received[0].Heroes[0].Name)

	require.NoError(t, os.WriteFile(file, []byte(`{"id": "a", "heroes": [{"id": 1, "name": "uno"}]}`), 0o644))
	cmgr.load()
	require.Len(t, received, 2)
	assert.Equal(t, "uno", cmgr.Heroes.Heroes[0].Name)

	require.NoError(t, os.WriteFile(file, []byte(`not json`), 0o644))
	cmgr.load()
	assert.Len(t, received, 2)
	assert.Equal(t, "uno", cmgr.Heroes.Heroes[0].Name, "broken content keeps the previous config")
}

func serverMock() *httptest.Server {
	handler := http.NewServeMux()
	handler.HandleFunc("/test/config.json", configMock)

	srv := httptest.NewServer(handler)

	return srv
}

func configMock(w http.ResponseWriter, r *http.Request) {
	cmgr := ConfigurationManager{
		logger: zap.NewNop().Sugar(),
	}
	res, _ := cmgr.loadFile(testConfig)
	_, _ = w.Write([]byte(`{"id": "wrapped", "data": `))
	_, _ = w.Write(res)
	_, _ = w.Write([]byte(`}`))
}
