package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/info", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates a UUID when the header is absent", func(t *testing.T) {
		w := perform(router, "GET", "/info", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		id := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses the caller's X-Request-ID", func(t *testing.T) {
		w := perform(router, "GET", "/info", map[string]string{"X-Request-ID": "trace-42"})

		assert.Equal(t, "trace-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "trace-42", w.Body.String())
	})
}

func TestLogger(t *testing.T) {
	newRouter := func(status int) (*gin.Engine, *observer.ObservedLogs) {
		core, logs := observer.New(zap.InfoLevel)
		router := gin.New()
		router.Use(RequestID())
		router.Use(Logger(zap.New(core)))
		router.GET("/classify", func(c *gin.Context) {
			c.String(status, "done")
		})
		return router, logs
	}

	t.Run("2xx logs at info with request fields", func(t *testing.T) {
		router, logs := newRouter(http.StatusOK)

		perform(router, "GET", "/classify", map[string]string{"X-Request-ID": "trace-7"})

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zap.InfoLevel, entry.Level)
		fields := entry.ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/classify", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "trace-7", fields["request_id"])
	})

	t.Run("4xx logs at warn", func(t *testing.T) {
		router, logs := newRouter(http.StatusUnprocessableEntity)

		perform(router, "GET", "/classify", nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
	})

	t.Run("5xx logs at error", func(t *testing.T) {
		router, logs := newRouter(http.StatusInternalServerError)

		perform(router, "GET", "/classify", nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zap.ErrorLevel, logs.All()[0].Level)
	})
}

func TestRecovery(t *testing.T) {
	t.Run("converts a panic into a 500 JSON error", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		router := gin.New()
		router.Use(RequestID())
		router.Use(Recovery(zap.New(core)))
		router.GET("/classify", func(c *gin.Context) {
			panic("tokenizer exploded")
		})

		w := perform(router, "GET", "/classify", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.NotContains(t, w.Body.String(), "tokenizer exploded")
		require.Equal(t, 1, logs.Len())
	})

	t.Run("stays out of the way without a panic", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery(zap.NewNop()))
		router.GET("/classify", func(c *gin.Context) {
			c.String(http.StatusOK, "done")
		})

		w := perform(router, "GET", "/classify", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/classify", func(c *gin.Context) {
		c.String(http.StatusOK, "done")
	})

	t.Run("sets allow headers on normal requests", func(t *testing.T) {
		w := perform(router, "GET", "/classify", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	})

	t.Run("short-circuits OPTIONS preflight", func(t *testing.T) {
		w := perform(router, "OPTIONS", "/classify", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
