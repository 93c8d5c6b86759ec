package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TADSTech/financial-news-classifier/internal/usecase"
)

// HealthHandler reports process and model state.
type HealthHandler struct {
	uc usecase.ClassifyUsecase
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(uc usecase.ClassifyUsecase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health. The model loads lazily, so an unloaded model
// is reported but never unhealthy.
func (h *HealthHandler) Health(c *gin.Context) {
	info := h.uc.EngineInfo()

	components := map[string]string{
		"runtime": info.Runtime,
	}
	if info.Loaded {
		components["model"] = "loaded"
	} else {
		components["model"] = "not loaded"
	}

	c.JSON(http.StatusOK, HealthStatus{
		Status:     "healthy",
		Components: components,
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(c *gin.Context) {
	info := h.uc.EngineInfo()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"model_loaded": info.Loaded,
	})
}
