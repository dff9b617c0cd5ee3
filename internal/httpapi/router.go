package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"settlement-profit/internal/observability/metrics"
	"settlement-profit/pkg/response"
)

// RouterConfig holds the transport settings of the API.
type RouterConfig struct {
	IsProduction bool
	AllowOrigins []string
}

// NewRouter wires middleware, the report routes, health and metrics.
func NewRouter(cfg RouterConfig, logger *slog.Logger, reports *ReportHandler) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{RequestIDHeader, "Content-Disposition"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "OK"}))
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	reports.RegisterRoutes(r.Group("/api/v1"))
	return r
}
