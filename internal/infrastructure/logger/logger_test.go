package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TADSTech/financial-news-classifier/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	t.Run("creates logger with JSON format", func(t *testing.T) {
		log, err := New(&config.LogConfig{Level: "info", Format: "json"})

		assert.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("creates logger with console format", func(t *testing.T) {
		log, err := New(&config.LogConfig{Level: "debug", Format: "console"})

		assert.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("defaults to info level for invalid level", func(t *testing.T) {
		log, err := New(&config.LogConfig{Level: "shouting", Format: "json"})

		assert.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("accepts warn and error levels", func(t *testing.T) {
		for _, level := range []string{"warn", "error"} {
			log, err := New(&config.LogConfig{Level: level, Format: "console"})

			assert.NoError(t, err)
			assert.NotNil(t, log)
		}
	})
}
