// Package metrics exposes field usage counts as Prometheus gauges.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
)

const namespace = "fieldusage"

// Field states used as label values.
const (
	StateAccessed   = "accessed"
	StateUnaccessed = "unaccessed"
)

// FieldMetrics holds the field usage gauges. Every series carries the
// search pattern that produced it.
type FieldMetrics struct {
	mu          sync.Mutex
	accessCount *prometheus.GaugeVec
	fields      *prometheus.GaugeVec
}

// New creates the gauges and registers them with reg.
func New(reg prometheus.Registerer) (*FieldMetrics, error) {
	m := &FieldMetrics{
		accessCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "field_access_count",
			Help:      "Times a field was accessed since usage tracking started, summed over shards.",
		}, []string{"pattern", "index", "field"}),
		fields: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fields",
			Help:      "Number of mapped fields by access state.",
		}, []string{"pattern", "index", "state"}),
	}

	for _, c := range []prometheus.Collector{m.accessCount, m.fields} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Set replaces every series for index under pattern with the given counts.
// Sections left nil are not exported.
func (m *FieldMetrics) Set(pattern, index string, accessed, unaccessed fieldusage.Counts) {
	m.mu.Lock()
	defer m.mu.Unlock()

	labels := prometheus.Labels{"pattern": pattern, "index": index}
	m.accessCount.DeletePartialMatch(labels)
	m.fields.DeletePartialMatch(labels)
	m.write(pattern, index, accessed, unaccessed)
}

// SetViews replaces every series of pattern with the indices of views plus
// the combined totals, exported under the combined index name.
func (m *FieldMetrics) SetViews(pattern, combined string, views *fieldusage.Views) {
	m.mu.Lock()
	defer m.mu.Unlock()

	labels := prometheus.Labels{"pattern": pattern}
	m.accessCount.DeletePartialMatch(labels)
	m.fields.DeletePartialMatch(labels)

	for _, report := range views.PerIndexReport() {
		m.write(pattern, report.Indices.Names()[0], report.Accessed, report.Unaccessed)
	}
	report := views.Report()
	m.write(pattern, combined, report.Accessed, report.Unaccessed)
}

// write must be called with mu held.
func (m *FieldMetrics) write(pattern, index string, accessed, unaccessed fieldusage.Counts) {
	for _, section := range []struct {
		state  string
		counts fieldusage.Counts
	}{
		{StateAccessed, accessed},
		{StateUnaccessed, unaccessed},
	} {
		if section.counts == nil {
			continue
		}
		m.fields.WithLabelValues(pattern, index, section.state).Set(float64(len(section.counts)))
		for _, fc := range section.counts {
			m.accessCount.WithLabelValues(pattern, index, fc.Field).Set(float64(fc.Count))
		}
	}
}
