package render

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/metrics"
)

// File formats chosen by suffix. Any other suffix writes delimited lines.
const (
	SuffixJSON = "json"
	SuffixXLSX = "xlsx"
	SuffixProm = "prom"
)

const filePerm = 0o644

// FileOptions controls what a FileSink writes.
type FileOptions struct {
	Dir        string
	Prefix     string
	Suffix     string
	Delimiter  string
	ShowCounts bool
	Selection  Selection
	// Nested writes JSON output as a tree keyed by path segment.
	Nested bool
	// Pattern labels Prometheus output.
	Pattern string
}

// FileSink writes each DataSet to {prefix}-{name}.{suffix} under Dir,
// replacing any existing file.
type FileSink struct {
	opts FileOptions
	log  logger.Logger
}

// NewFileSink creates a FileSink. A nil log discards messages.
func NewFileSink(opts FileOptions, log logger.Logger) *FileSink {
	if log == nil {
		log = logger.NewNop()
	}
	return &FileSink{opts: opts, log: log}
}

// FileName returns the file name used for the named data set.
func (s *FileSink) FileName(name string) string {
	return fmt.Sprintf("%s-%s.%s", s.opts.Prefix, name, s.opts.Suffix)
}

// Write writes every data set and returns the file names written, in order.
func (s *FileSink) Write(sets []DataSet) ([]string, error) {
	written := make([]string, 0, len(sets))
	for _, set := range sets {
		name := s.FileName(set.Name)
		path := filepath.Join(s.opts.Dir, name)

		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return written, infraerrors.WrapWithContextf(err, "remove existing %s", path)
		}
		if err := s.writeOne(path, set); err != nil {
			return written, infraerrors.WrapWithContextf(err, "write %s", path)
		}

		s.log.Debug("Wrote field usage file",
			logger.String("path", path),
			logger.String("data_set", set.Name),
		)
		written = append(written, name)
	}
	return written, nil
}

func (s *FileSink) writeOne(path string, set DataSet) error {
	switch strings.ToLower(s.opts.Suffix) {
	case SuffixJSON:
		return s.writeJSON(path, set)
	case SuffixXLSX:
		return s.writeXLSX(path, set)
	case SuffixProm:
		return s.writeProm(path, set)
	default:
		return s.writeLines(path, set)
	}
}

func (s *FileSink) writeJSON(path string, set DataSet) error {
	counts := set.Select(s.opts.Selection)

	var (
		data []byte
		err  error
	)
	if s.opts.Nested {
		data, err = json.MarshalIndent(fieldusage.Unflatten(counts), "", "  ")
	} else {
		data, err = indentJSON(counts)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), filePerm)
}

func indentJSON(counts fieldusage.Counts) ([]byte, error) {
	compact, err := counts.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *FileSink) writeLines(path string, set DataSet) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	w := bufio.NewWriter(f)
	if err := WriteLines(w, set.Select(s.opts.Selection), s.opts.ShowCounts, s.opts.Delimiter); err != nil {
		return err
	}
	return w.Flush()
}

func (s *FileSink) writeXLSX(path string, set DataSet) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	sheets := s.sections(set)
	for i, section := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", section.state); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(section.state); err != nil {
			return err
		}
		if err := writeSheet(f, section.state, section.counts, s.opts.ShowCounts); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, counts fieldusage.Counts, showCounts bool) error {
	header := []any{"field"}
	if showCounts {
		header = append(header, "count")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, fc := range counts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{fc.Field}
		if showCounts {
			row = append(row, fc.Count)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileSink) writeProm(path string, set DataSet) error {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	var accessed, unaccessed fieldusage.Counts
	if s.opts.Selection.Accessed {
		accessed = set.Accessed
	}
	if s.opts.Selection.Unaccessed {
		unaccessed = set.Unaccessed
	}
	m.Set(s.opts.Pattern, set.Name, accessed, unaccessed)
	return prometheus.WriteToTextfile(path, reg)
}

type section struct {
	state  string
	counts fieldusage.Counts
}

func (s *FileSink) sections(set DataSet) []section {
	var out []section
	if s.opts.Selection.Accessed {
		out = append(out, section{metrics.StateAccessed, set.Accessed})
	}
	if s.opts.Selection.Unaccessed {
		out = append(out, section{metrics.StateUnaccessed, set.Unaccessed})
	}
	return out
}
