package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// Model defaults
		assert.Equal(t, "TADSTech/financial-news-classifier", cfg.Model.ID)
		assert.Equal(t, "models/finbert", cfg.Model.LocalDir)
		assert.Equal(t, "models/hub", cfg.Model.CacheDir)
		assert.Equal(t, "cpu", cfg.Model.Device)
		assert.Equal(t, 32, cfg.Model.BatchSize)
		assert.Equal(t, 512, cfg.Model.MaxTokens)

		// Server defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 7860, cfg.Server.Port)
		assert.Equal(t, "release", cfg.Server.Mode)

		// Feed defaults
		assert.Equal(t, 10*time.Second, cfg.Feed.Timeout)
		assert.Equal(t, 20, cfg.Feed.MaxEntries)

		// Log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("reads from environment variables", func(t *testing.T) {
		t.Setenv("FNC_MODEL_DEVICE", "cuda")
		t.Setenv("FNC_SERVER_PORT", "8080")
		t.Setenv("FNC_LOG_LEVEL", "debug")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, "cuda", cfg.Model.Device)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
	})
}

func TestSetDefaults(t *testing.T) {
	// Implicitly covered by Load; verify the defaults are sane.
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Greater(t, cfg.Server.Port, 0)
	assert.Greater(t, cfg.Model.BatchSize, 0)
	assert.Greater(t, cfg.Model.MaxTokens, 0)
	assert.Greater(t, cfg.Feed.Timeout, time.Duration(0))
}
