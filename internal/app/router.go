package app

import (
	httpx "github.com/yungbote/metaman/internal/http"
	"github.com/yungbote/metaman/internal/observability"
	"github.com/yungbote/metaman/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) httpx.RouterConfig {
	return httpx.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxBodyBytes:   cfg.Application.MaxBodyBytes,
		Metrics:        metrics,
		AuthMiddleware: middleware.Auth,
		MarkingHandler: handlers.Marking,
		HealthHandler:  handlers.Health,
	}
}
