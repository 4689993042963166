package fieldusage

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// FieldCount is the access count recorded for one dotted field path.
type FieldCount struct {
	Field string `json:"field"`
	Count int64  `json:"count"`
}

// Counts is an ordered field to count mapping. Field names are unique within
// a Counts value produced by this package.
type Counts []FieldCount

// Group is a named Counts value, typically one index's merged result.
type Group struct {
	Name   string
	Counts Counts
}

// SortByKey returns a copy sorted alphabetically by field name.
func (c Counts) SortByKey() Counts {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b FieldCount) int {
		return cmp.Compare(a.Field, b.Field)
	})
	return out
}

// SortByValueDesc returns a copy sorted by count, highest first. Entries with
// equal counts keep their relative order.
func (c Counts) SortByValueDesc() Counts {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b FieldCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// SumAcrossGroups sums each field's count across all groups. A field missing
// from a group contributes nothing. The result is sorted by key; callers that
// need value order must re-sort.
func SumAcrossGroups(groups []Group) Counts {
	totals := make(map[string]int64)
	for _, g := range groups {
		for _, fc := range g.Counts {
			totals[fc.Field] += fc.Count
		}
	}
	out := make(Counts, 0, len(totals))
	for field, count := range totals {
		out = append(out, FieldCount{Field: field, Count: count})
	}
	return out.SortByKey()
}

// Get returns the count for field and whether it is present.
func (c Counts) Get(field string) (int64, bool) {
	for _, fc := range c {
		if fc.Field == field {
			return fc.Count, true
		}
	}
	return 0, false
}

// Fields returns the field names in order.
func (c Counts) Fields() []string {
	out := make([]string, len(c))
	for i, fc := range c {
		out[i] = fc.Field
	}
	return out
}

// Map returns the counts as an unordered map.
func (c Counts) Map() map[string]int64 {
	out := make(map[string]int64, len(c))
	for _, fc := range c {
		out[fc.Field] = fc.Count
	}
	return out
}

// Accessed returns the entries with a count above zero, order preserved.
func (c Counts) Accessed() Counts {
	return c.filter(func(fc FieldCount) bool { return fc.Count > 0 })
}

// Unaccessed returns the entries with a zero count, order preserved.
func (c Counts) Unaccessed() Counts {
	return c.filter(func(fc FieldCount) bool { return fc.Count == 0 })
}

func (c Counts) filter(keep func(FieldCount) bool) Counts {
	out := make(Counts, 0, len(c))
	for _, fc := range c {
		if keep(fc) {
			out = append(out, fc)
		}
	}
	return out
}

// MarshalJSON encodes the counts as a JSON object whose key order follows the
// slice order.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fc := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fc.Field)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", fc.Field, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", fc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
