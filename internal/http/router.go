package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/adforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adforge-backend/internal/http/middleware"
)

type RouterConfig struct {
	RewriteHandler *httpH.RewriteHandler
	HistoryHandler *httpH.HistoryHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(otelgin.Middleware("adforge"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.RewriteHandler != nil {
			api.POST("/run-agent", cfg.RewriteHandler.RunAgent)
		}
		if cfg.HistoryHandler != nil {
			api.GET("/rewrites", cfg.HistoryHandler.ListRuns)
			api.GET("/rewrites/:id", cfg.HistoryHandler.GetRun)
		}
	}

	return r
}
