// Package testhelpers provides shared test fixtures for field usage tests.
package testhelpers

import (
	"go.uber.org/mock/gomock"

	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage/mocks"
)

// Pattern is the search pattern ExpectTwoIndices answers for.
const Pattern = "logs-*"

// Usage builds a single-shard usage entry with the given "any" counts.
func Usage(fields map[string]int64) fieldusage.IndexFieldUsage {
	stats := fieldusage.ShardStats{Fields: make(map[string]fieldusage.FieldStats, len(fields))}
	for name, n := range fields {
		stats.Fields[name] = fieldusage.FieldStats{Any: n}
	}
	return fieldusage.IndexFieldUsage{Shards: []fieldusage.ShardFieldUsage{{Stats: stats}}}
}

// Leaf is a mapping entry without sub-properties.
func Leaf() map[string]any {
	return map[string]any{"type": "keyword"}
}

// ExpectTwoIndices primes cluster to answer Pattern with:
//
//	logs-1: a=5 host.name=2 b=0
//	logs-2: a=1 c=0
func ExpectTwoIndices(cluster *mocks.MockCluster) {
	cluster.EXPECT().FieldUsageStats(gomock.Any(), Pattern).Return(map[string]fieldusage.IndexFieldUsage{
		fieldusage.ShardsKey: {},
		"logs-1":             Usage(map[string]int64{"a": 5, "host.name": 2}),
		"logs-2":             Usage(map[string]int64{"a": 1}),
	}, nil)
	cluster.EXPECT().FieldMapping(gomock.Any(), "logs-1").Return(map[string]any{
		"a":    Leaf(),
		"b":    Leaf(),
		"host": map[string]any{"properties": map[string]any{"name": Leaf()}},
	}, nil)
	cluster.EXPECT().FieldMapping(gomock.Any(), "logs-2").Return(map[string]any{
		"a": Leaf(),
		"c": Leaf(),
	}, nil)
}
