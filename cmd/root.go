// Package cmd implements the command-line interface for fieldusage.
package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/field-usage/cmd/common"
	"github.com/jonesrussell/north-cloud/field-usage/cmd/file"
	"github.com/jonesrussell/north-cloud/field-usage/cmd/index"
	"github.com/jonesrussell/north-cloud/field-usage/cmd/serve"
	"github.com/jonesrussell/north-cloud/field-usage/cmd/showindices"
	"github.com/jonesrussell/north-cloud/field-usage/cmd/stdout"
	cmdversion "github.com/jonesrussell/north-cloud/field-usage/cmd/version"
	"github.com/jonesrussell/north-cloud/field-usage/internal/version"
)

// NewRootCommand builds the fieldusage command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fieldusage",
		Short: "Report which Elasticsearch fields are queried and which are not",
		Long: `Report which Elasticsearch fields are queried and which are not.

Field usage statistics for every index matching a search pattern are merged
with the index mappings, so fields that were never accessed show up with a
count of zero. Results can be printed, written to files, indexed back into
Elasticsearch, or served over HTTP.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	common.AddGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		showindices.Command(),
		stdout.Command(),
		file.Command(),
		index.Command(),
		serve.Command(),
		cmdversion.Command(),
	)
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	// Environment variables may come from a .env file.
	_ = godotenv.Load()

	return NewRootCommand().ExecuteContext(ctx)
}
