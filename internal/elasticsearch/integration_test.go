//go:build integration

package elasticsearch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcelasticsearch "github.com/testcontainers/testcontainers-go/modules/elasticsearch"

	infraes "github.com/jonesrussell/north-cloud/field-usage/infrastructure/elasticsearch"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
)

const elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.11.0"

func startCluster(t *testing.T) (*es.Client, *elasticsearch.Client) {
	t.Helper()
	ctx := context.Background()

	container, err := tcelasticsearch.Run(ctx, elasticsearchImage, tcelasticsearch.WithPassword("changeme"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	cfg := infraes.Config{
		Hosts:          []string{container.Settings.Address},
		Username:       "elastic",
		Password:       container.Settings.Password,
		RequestTimeout: 30 * time.Second,
	}
	if len(container.Settings.CACert) > 0 {
		caFile := filepath.Join(t.TempDir(), "ca.crt")
		require.NoError(t, os.WriteFile(caFile, container.Settings.CACert, 0o600))
		cfg.TLS = &infraes.TLSConfig{CAFile: caFile}
	}

	raw, err := infraes.NewClient(ctx, cfg, logger.NewNop())
	require.NoError(t, err)
	return raw, elasticsearch.NewClient(raw, logger.NewNop())
}

func TestIntegration_FieldUsage(t *testing.T) {
	raw, client := startCluster(t)
	ctx := context.Background()

	res, err := raw.Indices.Create("logs-1", raw.Indices.Create.WithBody(strings.NewReader(`{
		"mappings": {"properties": {
			"message": {"type": "text"},
			"host": {"properties": {"name": {"type": "keyword"}}},
			"unused": {"type": "keyword"}
		}}
	}`)))
	require.NoError(t, err)
	require.False(t, res.IsError(), res.String())
	res.Body.Close()

	n, err := client.BulkIndex(ctx, "logs-1", []any{
		map[string]any{"message": "disk full", "host": map[string]any{"name": "web-1"}, "unused": "x"},
		map[string]any{"message": "disk ok", "host": map[string]any{"name": "web-2"}, "unused": "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	res, err = raw.Indices.Refresh(raw.Indices.Refresh.WithIndex("logs-1"))
	require.NoError(t, err)
	res.Body.Close()

	res, err = raw.Search(
		raw.Search.WithIndex("logs-1"),
		raw.Search.WithBody(strings.NewReader(`{"query": {"match": {"message": "disk"}}}`)),
	)
	require.NoError(t, err)
	require.False(t, res.IsError(), res.String())
	res.Body.Close()

	names, err := client.ListIndices(ctx, "logs-*")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs-1"}, names)

	require.NoError(t, client.Ping(ctx))

	agg, err := fieldusage.New(ctx, client, "logs-*")
	require.NoError(t, err)
	views, err := agg.Finalize(ctx)
	require.NoError(t, err)

	report := views.Report()
	assert.Equal(t, fieldusage.SingleIndex("logs-1"), report.Indices)
	assert.Equal(t, 3, report.FieldCount)

	accessed, ok := report.Accessed.Get("message")
	require.True(t, ok)
	assert.Positive(t, accessed)

	_, ok = report.Unaccessed.Get("unused")
	assert.True(t, ok)
}
