package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage/mocks"
)

func usage(fields map[string]int64) fieldusage.IndexFieldUsage {
	stats := fieldusage.ShardStats{Fields: make(map[string]fieldusage.FieldStats, len(fields))}
	for name, n := range fields {
		stats.Fields[name] = fieldusage.FieldStats{Any: n}
	}
	return fieldusage.IndexFieldUsage{Shards: []fieldusage.ShardFieldUsage{{Stats: stats}}}
}

func leaf() map[string]any {
	return map[string]any{"type": "keyword"}
}

// twoIndexViews finalizes an aggregator over:
//
//	logs-1: a=5 host.name=2 b=0
//	logs-2: a=1 c=0
func twoIndexViews(t *testing.T) *fieldusage.Views {
	t.Helper()
	ctrl := gomock.NewController(t)
	cluster := mocks.NewMockCluster(ctrl)

	cluster.EXPECT().FieldUsageStats(gomock.Any(), "logs-*").Return(map[string]fieldusage.IndexFieldUsage{
		fieldusage.ShardsKey: {},
		"logs-1":             usage(map[string]int64{"a": 5, "host.name": 2}),
		"logs-2":             usage(map[string]int64{"a": 1}),
	}, nil)
	cluster.EXPECT().FieldMapping(gomock.Any(), "logs-1").Return(map[string]any{
		"a":    leaf(),
		"b":    leaf(),
		"host": map[string]any{"properties": map[string]any{"name": leaf()}},
	}, nil)
	cluster.EXPECT().FieldMapping(gomock.Any(), "logs-2").Return(map[string]any{
		"a": leaf(),
		"c": leaf(),
	}, nil)

	agg, err := fieldusage.New(context.Background(), cluster, "logs-*")
	require.NoError(t, err)
	views, err := agg.Finalize(context.Background())
	require.NoError(t, err)
	return views
}

func fc(field string, count int64) fieldusage.FieldCount {
	return fieldusage.FieldCount{Field: field, Count: count}
}
