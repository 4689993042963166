// Package file implements the file command, which writes field usage for a
// search pattern to one file per data set.
package file

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/field-usage/cmd/common"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/render"
)

// Options controls what the file command writes.
type Options struct {
	ShowReport bool
	PerIndex   bool
	Files      render.FileOptions
}

// Command returns the file command for use in the root command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file SEARCH_PATTERN",
		Short: "Write field usage information to file for SEARCH_PATTERN",
		Long: `Write field usage information to file for SEARCH_PATTERN.

Each file is named {prefix}-{name}.{suffix}, where name is the index name with
--per-index, or "all_indices" without it.

The suffix picks the format: "json" writes an object of field counts, "xlsx"
a workbook with accessed and unaccessed sheets, "prom" a Prometheus textfile
collector file. Any other suffix writes one field per line.`,
		Args: cobra.ExactArgs(1),
	}

	fs := cmd.Flags()
	report := common.AddShowHide(fs, "report", true, "show the summary report")
	accessed := common.AddShowHide(fs, "accessed", true, "write accessed fields")
	unaccessed := common.AddShowHide(fs, "unaccessed", true, "write unaccessed fields")
	counts := common.AddShowHide(fs, "counts", true, "write access counts next to field names")
	perIndex := common.AddToggle(fs, "per-index", "not-per-index", false, "write one file per index")
	nested := fs.Bool("nested", false, "write JSON output as a tree keyed by path segment")
	fs.String(common.FlagFilePath, "", "directory to write files to (default current directory, /fileoutput in a container)")
	fs.String(common.FlagPrefix, "", "file name prefix (default \"es_fieldusage\")")
	fs.String(common.FlagSuffix, "", "file name suffix: json, xlsx, prom or anything else for lines (default \"csv\")")
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

		out := deps.Config.Output
		opts := Options{
			ShowReport: report.Value(),
			PerIndex:   perIndex.Value(),
			Files: render.FileOptions{
				Dir:        out.FilePath,
				Prefix:     out.Prefix,
				Suffix:     out.Suffix,
				Delimiter:  out.Delimiter,
				ShowCounts: counts.Value(),
				Selection:  render.Selection{Accessed: accessed.Value(), Unaccessed: unaccessed.Value()},
				Nested:     *nested,
			},
		}
		console := render.NewConsole(cmd.OutOrStdout())
		return Run(cmd.Context(), cluster, console, args[0], opts, deps.Logger, deps.AggregatorOptions()...)
	}
	return cmd
}

// Run aggregates pattern, writes the files and reports their names.
func Run(
	ctx context.Context,
	cluster fieldusage.Cluster,
	console *render.Console,
	pattern string,
	opts Options,
	log logger.Logger,
	aggOpts ...fieldusage.Option,
) error {
	views, err := common.Aggregate(ctx, cluster, pattern, aggOpts...)
	if err != nil {
		return err
	}

	if opts.ShowReport {
		console.Summary(pattern, views.Report())
		fmt.Fprintln(console.Writer())
	}

	files := opts.Files
	files.Pattern = pattern
	sink := render.NewFileSink(files, log)
	written, err := sink.Write(render.DataSets(views, opts.PerIndex))
	if err != nil {
		return err
	}
	console.FilesWritten(written)
	return nil
}
