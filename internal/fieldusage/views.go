package fieldusage

import "slices"

// Views holds every derived result of an Aggregator. It is built once by
// Finalize and never changes afterwards; accessors return copies.
type Views struct {
	indices        Indices
	resultsByIndex []Group
	results        Counts
	report         Report
	perIndexReport PerIndexReport
}

// Indices describes the indices the views cover.
func (v *Views) Indices() Indices {
	return v.indices
}

// ResultsByIndex returns each index's merged result in index order.
func (v *Views) ResultsByIndex() []Group {
	out := make([]Group, len(v.resultsByIndex))
	for i, g := range v.resultsByIndex {
		out[i] = Group{Name: g.Name, Counts: slices.Clone(g.Counts)}
	}
	return out
}

// ResultsByIndexMap returns the merged results as {index: {field: count}}.
func (v *Views) ResultsByIndexMap() map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(v.resultsByIndex))
	for _, g := range v.resultsByIndex {
		out[g.Name] = g.Counts.Map()
	}
	return out
}

// Results returns the cross-index totals, highest count first.
func (v *Views) Results() Counts {
	return slices.Clone(v.results)
}

// Report returns the accessed/unaccessed split over Results.
func (v *Views) Report() Report {
	return v.report.clone()
}

// PerIndexReport returns one Report per index.
func (v *Views) PerIndexReport() PerIndexReport {
	out := make(PerIndexReport, len(v.perIndexReport))
	for i, r := range v.perIndexReport {
		out[i] = r.clone()
	}
	return out
}
