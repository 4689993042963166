// Package serve implements the serve command, which exposes field usage over
// HTTP along with Prometheus metrics.
package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/field-usage/cmd/common"
	"github.com/jonesrussell/north-cloud/field-usage/internal/api"
	"github.com/jonesrussell/north-cloud/field-usage/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/field-usage/internal/metrics"
	"github.com/jonesrussell/north-cloud/field-usage/internal/version"
)

const pingTimeout = 5 * time.Second

// Command returns the serve command for use in the root command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve field usage over HTTP",
		Long: `Serve field usage over HTTP.

Endpoints:
  GET /api/v1/usage/:pattern/report
  GET /api/v1/usage/:pattern/per-index
  GET /api/v1/usage/:pattern/results
  GET /api/v1/usage/:pattern/results-by-index
  GET /api/v1/usage/:pattern/indices
  GET /metrics
  GET /health

Every request reads current usage from the cluster.`,
		Args: cobra.NoArgs,
	}

	fs := cmd.Flags()
	fs.String("host", "", "address to listen on (default all interfaces)")
	fs.Int("port", 0, "port to listen on (default 8080)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		deps, err := common.Load(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = deps.Logger.Sync() }()

		server := deps.Config.Server
		if fs.Changed("host") {
			server.Host, _ = fs.GetString("host")
		}
		if fs.Changed("port") {
			server.Port, _ = fs.GetInt("port")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cluster, err := deps.NewCluster(ctx)
		if err != nil {
			return err
		}

		return Run(ctx, cluster, api.ServerConfig{
			Host:         server.Host,
			Port:         server.Port,
			ReadTimeout:  server.ReadTimeout,
			WriteTimeout: server.WriteTimeout,
			IdleTimeout:  server.IdleTimeout,
			Debug:        deps.Config.Logging.Development,
			Version:      version.String(),
		}, deps)
	}
	return cmd
}

// Run serves the API until ctx is cancelled.
func Run(ctx context.Context, cluster *elasticsearch.Client, cfg api.ServerConfig, deps common.CommandDeps) error {
	log := deps.Logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	fieldMetrics, err := metrics.New(reg)
	if err != nil {
		return err
	}

	handler := api.NewHandler(cluster, fieldMetrics, log, deps.AggregatorOptions()...)
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return cluster.Ping(pingCtx)
	}

	server, err := api.NewServer(handler, cfg, reg, ping, log)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
