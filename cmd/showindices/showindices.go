// Package showindices implements the show-indices command.
package showindices

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/field-usage/cmd/common"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/render"
)

// Command returns the show-indices command for use in the root command
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "show-indices SEARCH_PATTERN",
		Short: "Show indices on the console matching SEARCH_PATTERN",
		Long: `Show indices on the console matching SEARCH_PATTERN.

Use this to make sure the pattern matches the indices you expect before using
the stdout, file or index commands.`,
		Aliases: []string{"show_indices"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.Load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			cluster, err := deps.NewCluster(cmd.Context())
			if err != nil {
				return err
			}
			return Run(cmd.Context(), cluster, render.NewConsole(cmd.OutOrStdout()), args[0])
		},
	}
}

// Run lists the indices matching pattern, sorted by name.
func Run(ctx context.Context, cluster fieldusage.Cluster, console *render.Console, pattern string) error {
	names, err := cluster.ListIndices(ctx, pattern)
	if err != nil {
		return common.Fatal(&fieldusage.UpstreamQueryError{Op: "list indices", Target: pattern, Err: err})
	}
	console.Indices(pattern, names)
	return nil
}
