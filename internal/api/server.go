package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	infragin "github.com/jonesrussell/north-cloud/field-usage/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	inframetrics "github.com/jonesrussell/north-cloud/field-usage/infrastructure/metrics"
)

const serviceName = "fieldusage"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Debug        bool
	Version      string
}

// NewServer builds the HTTP server: health routes, /metrics over reg, and
// the usage API. ping backs the Elasticsearch health check when set.
func NewServer(
	handler *Handler,
	cfg ServerConfig,
	reg *prometheus.Registry,
	ping func() error,
	log logger.Logger,
) (*infragin.Server, error) {
	httpMetrics, err := inframetrics.New(reg, serviceName)
	if err != nil {
		return nil, err
	}

	builder := infragin.NewServerBuilder(serviceName, cfg.Port).
		WithLogger(log).
		WithHost(cfg.Host).
		WithDebug(cfg.Debug).
		WithVersion(cfg.Version).
		WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout).
		WithMiddleware(httpMetrics.Middleware()).
		WithRoutes(func(router *gin.Engine) {
			router.GET("/metrics", gin.WrapH(inframetrics.Handler(reg)))
			SetupRoutes(router, handler)
		})
	if ping != nil {
		builder = builder.WithElasticsearchHealthCheck(ping)
	}

	return builder.Build(), nil
}
