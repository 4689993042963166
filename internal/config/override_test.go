package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/field-usage/internal/config"
)

func TestOverride(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	err := config.Override(cfg, map[string]any{
		"aggregator.mapping_concurrency": "3",
		"elasticsearch.hosts":            "http://a:9200,http://b:9200",
		"elasticsearch.request_timeout":  2.5,
		"elasticsearch.verify_certs":     "false",
		"logging.loglevel":               "debug",
		"output.suffix":                  "json",
		"server.read_timeout":            "45s",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Elasticsearch.Hosts)
	assert.Equal(t, 2500*time.Millisecond, cfg.Elasticsearch.RequestTimeout)
	require.NotNil(t, cfg.Elasticsearch.VerifyCerts)
	assert.False(t, *cfg.Elasticsearch.VerifyCerts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.Suffix)
	assert.Equal(t, 3, cfg.Aggregator.MappingConcurrency)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
}

func TestOverride_SliceValue(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Elasticsearch.Hosts = []string{"http://a:9200", "http://b:9200"}
	require.NoError(t, config.Override(cfg, map[string]any{
		"elasticsearch.hosts": []string{"http://x:9200"},
	}))
	assert.Equal(t, []string{"http://x:9200"}, cfg.Elasticsearch.Hosts)
}

func TestOverride_UnknownKey(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	err := config.Override(cfg, map[string]any{"output.colour": "red"})
	require.ErrorIs(t, err, config.ErrConfiguration)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "output.colour", cfgErr.Key)
	assert.Equal(t, "unknown option", cfgErr.Message)
}

func TestOverride_PathThroughLeaf(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	err := config.Override(cfg, map[string]any{"output.suffix.extra": "x"})
	require.ErrorIs(t, err, config.ErrConfiguration)
}

func TestOverride_WrongType(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	err := config.Override(cfg, map[string]any{"aggregator.mapping_concurrency": "many"})
	require.ErrorIs(t, err, config.ErrConfiguration)
	assert.Equal(t, 1, cfg.Aggregator.MappingConcurrency)

	err = config.Override(cfg, map[string]any{"elasticsearch.request_timeout": "soon"})
	require.ErrorIs(t, err, config.ErrConfiguration)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	keys := config.Keys()
	assert.Contains(t, keys, "elasticsearch.hosts")
	assert.Contains(t, keys, "logging.loglevel")
	assert.Contains(t, keys, "output.indexname")
	assert.Contains(t, keys, "server.port")
	assert.IsIncreasing(t, keys)
}
