// Package common provides shared utilities for command implementations.
package common

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/jonesrussell/north-cloud/field-usage/infrastructure/config"
	infraes "github.com/jonesrussell/north-cloud/field-usage/infrastructure/elasticsearch"
	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/config"
	"github.com/jonesrussell/north-cloud/field-usage/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
)

// Config files looked up when --config is not given.
var configCandidates = []string{"fieldusage.yml", "config.yml"}

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger logger.Logger
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}

// Load builds the configuration for cmd from the config file, environment
// and any flags set on the command line, then creates the logger.
func Load(cmd *cobra.Command) (CommandDeps, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return CommandDeps{}, err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}
	log = log.With(logger.String("command", cmd.Name()))

	deps := CommandDeps{Logger: log, Config: cfg}
	return deps, deps.Validate()
}

// LoadConfig resolves, overrides and validates the configuration for cmd.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	fs := cmd.Flags()
	v, err := NewViper(fs)
	if err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	path := infraconfig.ResolvePath(v.GetString(FlagConfig), configCandidates...)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, infraerrors.WrapWithContext(err, "load configuration")
	}

	if err := config.Override(cfg, Overrides(fs, v)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewCluster connects to the configured cluster.
func (d CommandDeps) NewCluster(ctx context.Context) (*elasticsearch.Client, error) {
	esClient, err := infraes.NewClient(ctx, d.Config.Elasticsearch.ClientConfig(), d.Logger)
	if err != nil {
		return nil, Fatal(fmt.Errorf("unable to establish connection to Elasticsearch: %w", err))
	}
	return elasticsearch.NewClient(esClient, d.Logger), nil
}

// AggregatorOptions returns the aggregator options implied by the config.
func (d CommandDeps) AggregatorOptions() []fieldusage.Option {
	return []fieldusage.Option{
		fieldusage.WithLogger(d.Logger),
		fieldusage.WithMappingConcurrency(d.Config.Aggregator.MappingConcurrency),
	}
}

// Aggregate collects and finalizes field usage for pattern. Failures are
// returned as *FatalError.
func Aggregate(
	ctx context.Context,
	cluster fieldusage.Cluster,
	pattern string,
	opts ...fieldusage.Option,
) (*fieldusage.Views, error) {
	agg, err := fieldusage.New(ctx, cluster, pattern, opts...)
	if err != nil {
		return nil, Fatal(err)
	}
	views, err := agg.Finalize(ctx)
	if err != nil {
		return nil, Fatal(err)
	}
	return views, nil
}
