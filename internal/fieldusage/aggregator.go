// Package fieldusage merges Elasticsearch field usage statistics with index
// mappings and derives per-index and cross-index access counts.
//
// An Aggregator fetches raw usage for a search pattern when it is created.
// Mapping lookups and every derived view are deferred to Finalize, which runs
// once and returns an immutable Views value.
package fieldusage

import (
	"context"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
)

// Fields never reported in usage results.
var excludedFields = []string{"_id", "_source"}

// UsageStats maps an index name to its per-field access counts.
type UsageStats map[string]map[string]int64

// Aggregator computes field usage for one search pattern. It expects a single
// caller.
type Aggregator struct {
	cluster     Cluster
	pattern     string
	log         logger.Logger
	concurrency int
	usage       UsageStats

	finalizeOnce sync.Once
	views        *Views
	finalizeErr  error
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for progress messages.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithMappingConcurrency bounds the number of mapping fetches Finalize runs at
// once. Values below 1 mean sequential.
func WithMappingConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = max(n, 1)
	}
}

// New fetches the raw field usage for pattern and returns an Aggregator over it.
func New(ctx context.Context, cluster Cluster, pattern string, opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		cluster:     cluster,
		pattern:     pattern,
		log:         logger.NewNop(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}

	usage, err := a.fetchRawUsage(ctx)
	if err != nil {
		return nil, err
	}
	a.usage = usage
	a.log.Debug("Fetched field usage",
		logger.String("pattern", pattern),
		logger.Int("index_count", len(usage)),
	)
	return a, nil
}

func (a *Aggregator) fetchRawUsage(ctx context.Context) (UsageStats, error) {
	raw, err := a.cluster.FieldUsageStats(ctx, a.pattern)
	if err != nil {
		return nil, &UpstreamQueryError{Op: "get field usage", Target: a.pattern, Err: err}
	}
	usage := make(UsageStats, len(raw))
	for index, stats := range raw {
		if index == ShardsKey {
			continue
		}
		usage[index] = SumShardUsage(stats)
	}
	return usage, nil
}

// SumShardUsage sums the "any" counter of every field across all shards of one
// index. The _id and _source fields are left out.
func SumShardUsage(stats IndexFieldUsage) map[string]int64 {
	sums := make(map[string]int64)
	for _, shard := range stats.Shards {
		for field, fs := range shard.Stats.Fields {
			if slices.Contains(excludedFields, field) {
				continue
			}
			sums[field] += fs.Any
		}
	}
	return sums
}

// Pattern returns the search pattern the Aggregator was built for.
func (a *Aggregator) Pattern() string {
	return a.pattern
}

// UsageStats returns a copy of the summed raw usage keyed by index.
func (a *Aggregator) UsageStats() UsageStats {
	out := make(UsageStats, len(a.usage))
	for index, fields := range a.usage {
		out[index] = maps.Clone(fields)
	}
	return out
}

// IndexNames returns the fetched index names in ascending order.
func (a *Aggregator) IndexNames() []string {
	return slices.Sorted(maps.Keys(a.usage))
}

// Indices describes the fetched indices, collapsing a single match to SingleIndex.
func (a *Aggregator) Indices() Indices {
	return NewIndices(a.IndexNames())
}

// FieldMapping returns the properties subtree of index's mapping.
func (a *Aggregator) FieldMapping(ctx context.Context, index string) (map[string]any, error) {
	mapping, err := a.cluster.FieldMapping(ctx, index)
	if err != nil {
		return nil, &UpstreamQueryError{Op: "get field mapping", Target: index, Err: err}
	}
	return mapping, nil
}

// MergedResult zero-fills every mapped field of index, overlays the fetched
// usage counts and returns the result sorted by count, highest first. Usage
// for fields the mapping no longer has is dropped. An index without fetched
// usage yields an empty result.
func (a *Aggregator) MergedResult(ctx context.Context, index string) (Counts, error) {
	usage, ok := a.usage[index]
	if !ok {
		a.log.Debug("No usage data for index", logger.String("index", index))
		return Counts{}, nil
	}
	mapping, err := a.FieldMapping(ctx, index)
	if err != nil {
		return nil, err
	}

	tree := ZeroedTree(mapping)
	counts, err := Flatten(tree)
	if err != nil {
		return nil, err
	}
	for i := range counts {
		if n, found := usage[counts[i].Field]; found {
			counts[i].Count = n
		}
	}
	return counts.SortByValueDesc(), nil
}

// SingleIndexName resolves the index a single-index operation should use. A
// lone fetched index always wins; otherwise explicit is returned when set.
func (a *Aggregator) SingleIndexName(explicit string) (string, error) {
	names := a.IndexNames()
	switch {
	case len(names) == 1:
		return names[0], nil
	case explicit != "":
		return explicit, nil
	case len(names) == 0:
		return "", ErrNoIndices
	default:
		return "", &AmbiguousIndexError{Indices: names}
	}
}

// Result returns the merged result for the index SingleIndexName resolves.
func (a *Aggregator) Result(ctx context.Context, explicit string) (Counts, error) {
	index, err := a.SingleIndexName(explicit)
	if err != nil {
		return nil, err
	}
	return a.MergedResult(ctx, index)
}

// Finalize fetches every index mapping and computes all derived views. The
// work happens once; later calls return the same Views and error.
func (a *Aggregator) Finalize(ctx context.Context) (*Views, error) {
	a.finalizeOnce.Do(func() {
		a.views, a.finalizeErr = a.finalize(ctx)
	})
	return a.views, a.finalizeErr
}

func (a *Aggregator) finalize(ctx context.Context) (*Views, error) {
	byIndex, err := a.resultsByIndex(ctx)
	if err != nil {
		return nil, err
	}

	results := SumAcrossGroups(byIndex).SortByValueDesc()
	indices := a.Indices()

	perIndex := make(PerIndexReport, 0, len(byIndex))
	for _, g := range byIndex {
		perIndex = append(perIndex, NewReport(SingleIndex(g.Name), g.Counts))
	}

	a.log.Info("Field usage aggregated",
		logger.String("pattern", a.pattern),
		logger.Int("index_count", len(byIndex)),
		logger.Int("field_count", len(results)),
	)

	return &Views{
		indices:        indices,
		resultsByIndex: byIndex,
		results:        results,
		report:         NewReport(indices, results),
		perIndexReport: perIndex,
	}, nil
}

// resultsByIndex computes MergedResult for every fetched index. Results land
// in index order regardless of completion order and the first error wins.
func (a *Aggregator) resultsByIndex(ctx context.Context) ([]Group, error) {
	names := a.IndexNames()
	groups := make([]Group, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts, err := a.MergedResult(gctx, name)
			if err != nil {
				return err
			}
			groups[i] = Group{Name: name, Counts: counts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}
