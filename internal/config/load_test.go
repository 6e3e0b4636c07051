package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, meta, err := Load(
		WithEnv(envFrom(nil)),
		WithFileReader(func(string) ([]byte, error) { return nil, os.ErrNotExist }),
	)
	require.NoError(t, err)

	assert.Equal(t, DefaultLLMModel, cfg.LLMModel)
	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, DefaultServerPort, cfg.ServerPort)
	assert.Equal(t, []string{"data", "script", "docs"}, cfg.ContextDirs)
	assert.Equal(t, SourceDefault, meta.Source("llm_model"))
}

func TestLoadFileLayer(t *testing.T) {
	file := []byte(`{"llm_model": "gpt-4o", "server_port": 9001, "weather_api_key": "wk"}`)
	cfg, meta, err := Load(
		WithEnv(envFrom(nil)),
		WithConfigFile("familyconnect-config.json"),
		WithFileReader(func(path string) ([]byte, error) {
			require.Equal(t, "familyconnect-config.json", path)
			return file, nil
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, 9001, cfg.ServerPort)
	assert.Equal(t, "wk", cfg.WeatherAPIKey)
	assert.Equal(t, SourceFile, meta.Source("llm_model"))
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultStorePath, cfg.StorePath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	file := []byte(`{"llm_model": "gpt-4o"}`)
	cfg, meta, err := Load(
		WithConfigFile("cfg.json"),
		WithFileReader(func(string) ([]byte, error) { return file, nil }),
		WithEnv(envFrom(map[string]string{
			"FAMILYCONNECT_LLM_MODEL":   "gpt-4o-mini",
			"FAMILYCONNECT_LLM_API_KEY": "env-key",
		})),
	)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, "env-key", cfg.LLMAPIKey)
	assert.Equal(t, SourceEnv, meta.Source("llm_model"))
}

func TestLoadNamespacedEnvBeatsGeneric(t *testing.T) {
	cfg, _, err := Load(
		WithFileReader(func(string) ([]byte, error) { return nil, os.ErrNotExist }),
		WithEnv(envFrom(map[string]string{
			"OPENAI_API_KEY":                "generic-llm-key",
			"FAMILYCONNECT_LLM_API_KEY":     "namespaced-llm-key",
			"OPENWEATHER_API_KEY":           "generic-weather-key",
			"FAMILYCONNECT_WEATHER_API_KEY": "namespaced-weather-key",
		})),
	)
	require.NoError(t, err)

	assert.Equal(t, "namespaced-llm-key", cfg.LLMAPIKey)
	assert.Equal(t, "namespaced-weather-key", cfg.WeatherAPIKey)
}

func TestLoadGenericEnvAloneStillBinds(t *testing.T) {
	cfg, _, err := Load(
		WithFileReader(func(string) ([]byte, error) { return nil, os.ErrNotExist }),
		WithEnv(envFrom(map[string]string{
			"OPENAI_API_KEY":      "generic-llm-key",
			"OPENWEATHER_API_KEY": "generic-weather-key",
		})),
	)
	require.NoError(t, err)

	assert.Equal(t, "generic-llm-key", cfg.LLMAPIKey)
	assert.Equal(t, "generic-weather-key", cfg.WeatherAPIKey)
}

func TestLoadOverrideWinsLast(t *testing.T) {
	cfg, _, err := Load(
		WithEnv(envFrom(map[string]string{"FAMILYCONNECT_SERVER_PORT": "9100"})),
		WithFileReader(func(string) ([]byte, error) { return nil, os.ErrNotExist }),
		WithOverride(func(c *Config) { c.ServerPort = 9200 }),
	)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.ServerPort)
}

func TestLoadCorruptFileIsAnError(t *testing.T) {
	_, _, err := Load(
		WithConfigFile("cfg.json"),
		WithEnv(envFrom(nil)),
		WithFileReader(func(string) ([]byte, error) { return []byte("{not json"), nil }),
	)
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	got := expandHome("~/sessions", func() (string, error) { return "/home/u", nil })
	assert.Equal(t, "/home/u/sessions", got)
	assert.Equal(t, "/abs/path", expandHome("/abs/path", func() (string, error) { return "/home/u", nil }))
}
