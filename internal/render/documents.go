package render

import (
	"time"

	"github.com/google/uuid"
)

// timestampLayout is UTC at second precision with a fixed millisecond part.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Document is one field of one data set, shaped for indexing.
type Document struct {
	Timestamp string        `json:"@timestamp"`
	RunID     string        `json:"run_id"`
	Index     string        `json:"index"`
	Field     DocumentField `json:"field"`
}

// DocumentField holds a field name and its access count.
type DocumentField struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// FormatTimestamp truncates t to the second and renders it in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(timestampLayout)
}

// NewRunID returns an identifier shared by every document of one run.
func NewRunID() string {
	return uuid.NewString()
}

// Documents builds one document per selected field of every data set, in
// data set order with accessed fields first. All documents share now and
// runID.
func Documents(sets []DataSet, sel Selection, now time.Time, runID string) []Document {
	timestamp := FormatTimestamp(now)

	var docs []Document
	for _, set := range sets {
		for _, fc := range set.Select(sel) {
			docs = append(docs, Document{
				Timestamp: timestamp,
				RunID:     runID,
				Index:     set.Name,
				Field:     DocumentField{Name: fc.Field, Count: fc.Count},
			})
		}
	}
	return docs
}
