// Package index implements the index command, which writes field usage for
// a search pattern back into Elasticsearch as one document per field.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/field-usage/cmd/common"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/render"
)

// Indexer is a cluster that can also bulk-write documents.
type Indexer interface {
	fieldusage.Cluster
	BulkIndex(ctx context.Context, index string, docs []any) (int, error)
}

// Options controls what the index command writes.
type Options struct {
	ShowReport bool
	PerIndex   bool
	Selection  render.Selection
	IndexName  string
	// Now and RunID default to the current time and a fresh id.
	Now   time.Time
	RunID string
}

// Command returns the index command for use in the root command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index SEARCH_PATTERN",
		Short: "Write field usage information to an Elasticsearch index for SEARCH_PATTERN",
		Long: `Write field usage information to an Elasticsearch index for SEARCH_PATTERN.

One document is written per field per data set, shaped as:

  {
    "@timestamp": "2024-01-01T00:00:00.000Z",
    "run_id": "...",
    "index": "SOURCE_INDEX or all_indices",
    "field": {"name": "FIELD", "count": COUNT}
  }`,
		Args: cobra.ExactArgs(1),
	}

	fs := cmd.Flags()
	report := common.AddShowHide(fs, "report", true, "show the summary report")
	accessed := common.AddShowHide(fs, "accessed", true, "index accessed fields")
	unaccessed := common.AddShowHide(fs, "unaccessed", true, "index unaccessed fields")
	perIndex := common.AddToggle(fs, "per-index", "not-per-index", false, "label documents per source index")
	fs.String(common.FlagIndexName, "", "index to write documents to (default \"es-fieldusage\")")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		deps, err := common.Load(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = deps.Logger.Sync() }()

		cluster, err := deps.NewCluster(cmd.Context())
		if err != nil {
			return err
		}

		opts := Options{
			ShowReport: report.Value(),
			PerIndex:   perIndex.Value(),
			Selection:  render.Selection{Accessed: accessed.Value(), Unaccessed: unaccessed.Value()},
			IndexName:  deps.Config.Output.IndexName,
		}
		console := render.NewConsole(cmd.OutOrStdout())
		return Run(cmd.Context(), cluster, console, args[0], opts, deps.Logger, deps.AggregatorOptions()...)
	}
	return cmd
}

// Run aggregates pattern and bulk-writes the selected fields to
// opts.IndexName.
func Run(
	ctx context.Context,
	cluster Indexer,
	console *render.Console,
	pattern string,
	opts Options,
	log logger.Logger,
	aggOpts ...fieldusage.Option,
) error {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.RunID == "" {
		opts.RunID = render.NewRunID()
	}

	views, err := common.Aggregate(ctx, cluster, pattern, aggOpts...)
	if err != nil {
		return err
	}

	if opts.ShowReport {
		console.Summary(pattern, views.Report())
		fmt.Fprintln(console.Writer())
	}

	docs := render.Documents(render.DataSets(views, opts.PerIndex), opts.Selection, opts.Now, opts.RunID)
	log.Debug("Indexing field usage documents",
		logger.String("index", opts.IndexName),
		logger.String("run_id", opts.RunID),
		logger.Int("count", len(docs)),
	)

	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}
	indexed, err := cluster.BulkIndex(ctx, opts.IndexName, batch)
	if err != nil {
		return common.Fatal(&fieldusage.UpstreamQueryError{Op: "index documents", Target: opts.IndexName, Err: err})
	}

	console.DocumentsIndexed(opts.IndexName, indexed)
	return nil
}
