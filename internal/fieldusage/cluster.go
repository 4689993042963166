package fieldusage

import "context"

//go:generate mockgen -destination=mocks/mock_cluster.go -package=mocks . Cluster

// ShardsKey is the pseudo-index in a field usage response that carries
// shard-global metadata instead of per-field data.
const ShardsKey = "_shards"

// Cluster is the search-cluster capability the aggregator consumes.
type Cluster interface {
	// FieldUsageStats returns the per-shard field usage of every index matching
	// pattern, keyed by index name. The ShardsKey entry may be present.
	FieldUsageStats(ctx context.Context, pattern string) (map[string]IndexFieldUsage, error)
	// FieldMapping returns the "properties" subtree of index's mapping.
	FieldMapping(ctx context.Context, index string) (map[string]any, error)
	// ListIndices returns the names of indices matching pattern.
	ListIndices(ctx context.Context, pattern string) ([]string, error)
}

// IndexFieldUsage is one index entry of a field usage stats response.
type IndexFieldUsage struct {
	Shards []ShardFieldUsage `json:"shards"`
}

// ShardFieldUsage is the usage reported by one shard copy.
type ShardFieldUsage struct {
	TrackingID string     `json:"tracking_id"`
	Routing    ShardRoute `json:"routing"`
	Stats      ShardStats `json:"stats"`
}

// ShardRoute identifies the node and role of a shard copy.
type ShardRoute struct {
	State   string `json:"state"`
	Primary bool   `json:"primary"`
	Node    string `json:"node"`
}

// ShardStats holds the per-field counters of a shard.
type ShardStats struct {
	AllFields FieldStats            `json:"all_fields"`
	Fields    map[string]FieldStats `json:"fields"`
}

// FieldStats holds the usage counters of one field. Any counts every access
// regardless of the data structure that served it.
type FieldStats struct {
	Any           int64 `json:"any"`
	StoredFields  int64 `json:"stored_fields"`
	DocValues     int64 `json:"doc_values"`
	Points        int64 `json:"points"`
	Norms         int64 `json:"norms"`
	TermVectors   int64 `json:"term_vectors"`
	KnnVectors    int64 `json:"knn_vectors"`
	InvertedIndex struct {
		Terms           int64 `json:"terms"`
		Postings        int64 `json:"postings"`
		Proximity       int64 `json:"proximity"`
		Positions       int64 `json:"positions"`
		TermFrequencies int64 `json:"term_frequencies"`
		Offsets         int64 `json:"offsets"`
		Payloads        int64 `json:"payloads"`
	} `json:"inverted_index"`
}
