package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyconnect/internal/config"
	"familyconnect/internal/router"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, _, err := config.Load(
		config.WithEnv(func(string) (string, bool) { return "", false }),
		config.WithFileReader(func(string) ([]byte, error) { return nil, os.ErrNotExist }),
		config.WithOverride(func(c *config.Config) {
			c.StorePath = filepath.Join(dir, "birthdays.json")
			c.SessionDir = filepath.Join(dir, "sessions")
		}),
	)
	require.NoError(t, err)
	return cfg
}

func TestBuildWithoutAPIKey(t *testing.T) {
	application, err := Build(testConfig(t))
	require.NoError(t, err)
	assert.Nil(t, application.LLMClient)

	// LLM-backed intents answer with a configuration hint instead of failing.
	result, err := application.Router.Dispatch(context.Background(), "raconte-moi une histoire")
	require.NoError(t, err)
	assert.Equal(t, router.IntentFallback, result.Intent)
	assert.Equal(t, noLLMHint, result.Reply)
}

func TestBuildWithAPIKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMAPIKey = "sk-test"

	application, err := Build(cfg)
	require.NoError(t, err)
	assert.NotNil(t, application.LLMClient)
	assert.Equal(t, cfg.LLMModel, application.LLMClient.Model())
}

func TestBuildRejectsUnknownPersona(t *testing.T) {
	cfg := testConfig(t)
	cfg.Persona = "nobody"

	_, err := Build(cfg)
	require.Error(t, err)
}

func TestShutdownFlushesCleanly(t *testing.T) {
	application, err := Build(testConfig(t))
	require.NoError(t, err)

	require.NoError(t, application.Shutdown(context.Background()))
}
