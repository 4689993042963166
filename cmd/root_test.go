package cmd_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/field-usage/cmd"
)

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCommand()
	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"file", "index", "serve", "show-indices", "stdout", "version"})

	for _, flag := range []string{"hosts", "cloud-id", "api-key", "loglevel", "logfile", "logformat", "debug", "config"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCommand_Version(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "fieldusage version dev\n", out.String())
}

func TestRootCommand_RequiresPattern(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"stdout"})

	require.Error(t, root.Execute())
}

func TestRootCommand_ShowIndicesAlias(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCommand()
	found, _, err := root.Find([]string{"show_indices", "logs-*"})
	require.NoError(t, err)
	assert.Equal(t, "show-indices", found.Name())
}
