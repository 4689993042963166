package fieldusage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Indices describes the indices a view covers. It is either a SingleIndex or
// MultipleIndices; use a type switch to tell them apart.
type Indices interface {
	// Names returns the covered index names in order.
	Names() []string
	isIndices()
}

// SingleIndex is the Indices value when exactly one index matched.
type SingleIndex string

// Names returns the single name as a one-element slice.
func (s SingleIndex) Names() []string { return []string{string(s)} }

func (SingleIndex) isIndices() {}

// MultipleIndices is the Indices value for zero or several matched indices.
type MultipleIndices []string

// Names returns a copy of the names.
func (m MultipleIndices) Names() []string { return slices.Clone(m) }

// MarshalJSON always encodes an array, never null.
func (m MultipleIndices) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(m))
}

func (MultipleIndices) isIndices() {}

// NewIndices collapses names into the matching Indices variant.
func NewIndices(names []string) Indices {
	if len(names) == 1 {
		return SingleIndex(names[0])
	}
	out := make(MultipleIndices, len(names))
	copy(out, names)
	return out
}

// Report splits a set of field counts into accessed and unaccessed fields.
type Report struct {
	Indices    Indices `json:"indices"`
	FieldCount int     `json:"field_count"`
	Accessed   Counts  `json:"accessed"`
	Unaccessed Counts  `json:"unaccessed"`
}

// NewReport builds a Report over counts for the given indices.
func NewReport(indices Indices, counts Counts) Report {
	return Report{
		Indices:    indices,
		FieldCount: len(counts),
		Accessed:   counts.Accessed(),
		Unaccessed: counts.Unaccessed(),
	}
}

func (r Report) clone() Report {
	if m, ok := r.Indices.(MultipleIndices); ok {
		r.Indices = slices.Clone(m)
	}
	r.Accessed = slices.Clone(r.Accessed)
	r.Unaccessed = slices.Clone(r.Unaccessed)
	return r
}

// PerIndexReport holds one Report per index, in index order.
type PerIndexReport []Report

// Get returns the report for index.
func (p PerIndexReport) Get(index string) (Report, bool) {
	for _, r := range p {
		if single, ok := r.Indices.(SingleIndex); ok && string(single) == index {
			return r, true
		}
	}
	return Report{}, false
}

// MarshalJSON encodes the reports as an object keyed by index name.
func (p PerIndexReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		names := r.Indices.Names()
		if len(names) != 1 {
			return nil, fmt.Errorf("per-index report entry covers %d indices", len(names))
		}
		key, err := json.Marshal(names[0])
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode report for %s: %w", names[0], err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
