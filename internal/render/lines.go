// Package render writes field usage results to the console, to files and
// as documents for indexing.
package render

import (
	"io"
	"iter"
	"strconv"

	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
)

// FormatDelimiter pads ":" and "=" for readability; anything else is used
// verbatim.
func FormatDelimiter(raw string) string {
	switch raw {
	case ":":
		return ": "
	case "=":
		return " = "
	default:
		return raw
	}
}

// Lines yields one newline-terminated line per field: the field name, or
// the name, the formatted delimiter and the count.
func Lines(counts fieldusage.Counts, showCounts bool, delimiter string) iter.Seq[string] {
	delim := FormatDelimiter(delimiter)
	return func(yield func(string) bool) {
		for _, fc := range counts {
			line := fc.Field
			if showCounts {
				line += delim + strconv.FormatInt(fc.Count, 10)
			}
			if !yield(line + "\n") {
				return
			}
		}
	}
}

// WriteLines writes Lines to w.
func WriteLines(w io.Writer, counts fieldusage.Counts, showCounts bool, delimiter string) error {
	for line := range Lines(counts, showCounts, delimiter) {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
