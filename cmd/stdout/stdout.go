// Package stdout implements the stdout command, which prints field usage for
// a search pattern to the console.
package stdout

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/field-usage/cmd/common"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/render"
)

// Options controls what the stdout command prints.
type Options struct {
	ShowReport     bool
	ShowHeaders    bool
	ShowAccessed   bool
	ShowUnaccessed bool
	ShowCounts     bool
	Delimiter      string
}

// Command returns the stdout command for use in the root command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stdout SEARCH_PATTERN",
		Short: "Display field usage information on the console for SEARCH_PATTERN",
		Long: `Display field usage information on the console for SEARCH_PATTERN.

This is powerful if you want to pipe the output through grep for only certain
fields or patterns:

  fieldusage stdout --hide-report --hide-headers --show-unaccessed 'index-*' | grep process`,
		Args: cobra.ExactArgs(1),
	}

	fs := cmd.Flags()
	report := common.AddShowHide(fs, "report", true, "show the summary report")
	headers := common.AddShowHide(fs, "headers", true, "show section headers")
	accessed := common.AddShowHide(fs, "accessed", false, "list accessed fields")
	unaccessed := common.AddShowHide(fs, "unaccessed", false, "list unaccessed fields")
	counts := common.AddShowHide(fs, "counts", false, "print access counts next to field names")
	fs.String(common.FlagDelimiter, "", "delimiter between field name and count (default \",\")")

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
			ShowReport:     report.Value(),
			ShowHeaders:    headers.Value(),
			ShowAccessed:   accessed.Value(),
			ShowUnaccessed: unaccessed.Value(),
			ShowCounts:     counts.Value(),
			Delimiter:      deps.Config.Output.Delimiter,
		}
		return Run(cmd.Context(), cluster, render.NewConsole(cmd.OutOrStdout()), args[0], opts, deps.AggregatorOptions()...)
	}
	return cmd
}

// Run aggregates pattern and prints the selected sections to console.
func Run(
	ctx context.Context,
	cluster fieldusage.Cluster,
	console *render.Console,
	pattern string,
	opts Options,
	aggOpts ...fieldusage.Option,
) error {
	views, err := common.Aggregate(ctx, cluster, pattern, aggOpts...)
	if err != nil {
		return err
	}
	return Print(console, pattern, views, opts)
}

// Print writes views to console.
func Print(console *render.Console, pattern string, views *fieldusage.Views, opts Options) error {
	report := views.Report()
	if opts.ShowReport {
		console.Summary(pattern, report)
	}
	if opts.ShowAccessed {
		console.Header(render.AccessedHeader, opts.ShowHeaders)
		if err := console.Fields(report.Accessed, opts.ShowCounts, opts.Delimiter); err != nil {
			return err
		}
	}
	if opts.ShowUnaccessed {
		console.Header(render.UnaccessedHeader, opts.ShowHeaders)
		if err := console.Fields(report.Unaccessed, opts.ShowCounts, opts.Delimiter); err != nil {
			return err
		}
	}
	return nil
}
