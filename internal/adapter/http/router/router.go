package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TADSTech/financial-news-classifier/internal/adapter/http/handler"
	"github.com/TADSTech/financial-news-classifier/internal/adapter/http/middleware"
	"github.com/TADSTech/financial-news-classifier/internal/adapter/http/web"
	"github.com/TADSTech/financial-news-classifier/internal/usecase"
)

// Setup creates and configures the Gin router.
func Setup(uc usecase.ClassifyUsecase, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Browser form
	router.GET("/", web.Index)

	// Health endpoints
	healthHandler := handler.NewHealthHandler(uc)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Classification API
	classifyHandler := handler.NewClassifyHandler(uc, logger)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", classifyHandler.Classify)
		v1.POST("/classify/batch", classifyHandler.ClassifyBatch)
		v1.POST("/feed", classifyHandler.ClassifyFeed)
		v1.GET("/info", classifyHandler.Info)
	}

	return router
}
