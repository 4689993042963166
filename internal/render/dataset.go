package render

import "github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"

// AllIndices names the combined data set.
const AllIndices = "all_indices"

// DataSet is one unit of output: a single index, or every index combined.
type DataSet struct {
	Name       string
	Accessed   fieldusage.Counts
	Unaccessed fieldusage.Counts
}

// Selection picks which sections of a DataSet are written.
type Selection struct {
	Accessed   bool
	Unaccessed bool
}

// Select returns the chosen sections, accessed first.
func (d DataSet) Select(sel Selection) fieldusage.Counts {
	var out fieldusage.Counts
	if sel.Accessed {
		out = append(out, d.Accessed...)
	}
	if sel.Unaccessed {
		out = append(out, d.Unaccessed...)
	}
	return out
}

// DataSets returns one data set per index when perIndex is set, otherwise a
// single data set named AllIndices built from the combined report.
func DataSets(views *fieldusage.Views, perIndex bool) []DataSet {
	if !perIndex {
		report := views.Report()
		return []DataSet{{
			Name:       AllIndices,
			Accessed:   report.Accessed,
			Unaccessed: report.Unaccessed,
		}}
	}

	perIndexReport := views.PerIndexReport()
	sets := make([]DataSet, 0, len(perIndexReport))
	for _, report := range perIndexReport {
		sets = append(sets, DataSet{
			Name:       report.Indices.Names()[0],
			Accessed:   report.Accessed,
			Unaccessed: report.Unaccessed,
		})
	}
	return sets
}
