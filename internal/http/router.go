package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/metaman/internal/http/handlers"
	httpMW "github.com/yungbote/metaman/internal/http/middleware"
	"github.com/yungbote/metaman/internal/observability"
	"github.com/yungbote/metaman/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	MaxBodyBytes   int64

	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware
	MarkingHandler *httpH.MarkingHandler
	HealthHandler  *httpH.HealthHandler
}

var unmeteredPaths = []string{"/health_check", "/healthcheck", "/readyz", "/metrics"}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics, unmeteredPaths...))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.LimitBody(cfg.MaxBodyBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health_check", cfg.HealthHandler.HealthCheckEmpty)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	if cfg.MarkingHandler != nil {
		registerMarkings(r.Group("/markings"), cfg)
		registerMarkings(r.Group("/api/markings"), cfg)
	}

	return r
}

func registerMarkings(g *gin.RouterGroup, cfg RouterConfig) {
	g.GET("", cfg.MarkingHandler.List)
	g.GET("/:id", cfg.MarkingHandler.Get)
	if cfg.AuthMiddleware != nil {
		g.POST("", cfg.AuthMiddleware.Authenticate(), cfg.MarkingHandler.Create)
		return
	}
	g.POST("", cfg.MarkingHandler.Create)
}
