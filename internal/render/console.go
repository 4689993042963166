package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
)

// maxListed caps how many names are printed inline.
const maxListed = 3

// Section headers for the stdout command.
const (
	AccessedHeader   = "Accessed Fields (in descending frequency):"
	UnaccessedHeader = "Unaccessed Fields"
)

// Console writes human readable output. Styling is applied only when the
// destination is a terminal.
type Console struct {
	out    io.Writer
	styled bool
}

// NewConsole writes to out, styling when out is a terminal.
func NewConsole(out io.Writer) *Console {
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Console{out: out, styled: styled}
}

// NewPlainConsole writes to out without styling.
func NewPlainConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Writer returns the destination.
func (c *Console) Writer() io.Writer {
	return c.out
}

func (c *Console) bold(s string) string {
	if !c.styled {
		return s
	}
	return text.Bold.Sprint(s)
}

func (c *Console) heading(s string) string {
	if !c.styled {
		return s
	}
	return text.Colors{text.Bold, text.Underline}.Sprint(s)
}

// Summary prints the report totals for pattern.
func (c *Console) Summary(pattern string, report fieldusage.Report) {
	fmt.Fprintf(c.out, "\n%s\n", c.heading("Summary Report"))
	fmt.Fprintf(c.out, "\nSearch Pattern: %s\n", c.bold(pattern))

	switch indices := report.Indices.(type) {
	case fieldusage.SingleIndex:
		fmt.Fprintf(c.out, "Index Found: %s\n", c.bold(string(indices)))
	case fieldusage.MultipleIndices:
		found := "(data too big)"
		if len(indices) <= maxListed {
			found = listNames(indices)
		}
		fmt.Fprintf(c.out, "%s Indices Found: %s\n", c.bold(strconv.Itoa(len(indices))), c.bold(found))
	}

	fmt.Fprintf(c.out, "Total Fields Found: %s\n", c.bold(strconv.Itoa(report.FieldCount)))
	fmt.Fprintf(c.out, "Accessed Fields: %s\n", c.bold(strconv.Itoa(len(report.Accessed))))
	fmt.Fprintf(c.out, "Unaccessed Fields: %s\n", c.bold(strconv.Itoa(len(report.Unaccessed))))
}

// Header prints a section header, or an empty line when headers are hidden.
func (c *Console) Header(title string, show bool) {
	if !show {
		fmt.Fprintln(c.out)
		return
	}
	fmt.Fprintf(c.out, "\n%s\n", c.heading(title))
}

// Fields prints counts one per line.
func (c *Console) Fields(counts fieldusage.Counts, showCounts bool, delimiter string) error {
	return WriteLines(c.out, counts, showCounts, delimiter)
}

// Indices prints the indices matching pattern. On a terminal the names are
// shown as a numbered table; otherwise one name per line.
func (c *Console) Indices(pattern string, names []string) {
	fmt.Fprintf(c.out, "\n%s: %s\n", c.heading("Search Pattern"), c.bold(pattern))

	if len(names) == 1 {
		fmt.Fprintf(c.out, "\n%s: %s\n", c.heading("Index Found"), c.bold(names[0]))
		return
	}
	fmt.Fprintf(c.out, "\n%s: \n", c.heading(strconv.Itoa(len(names))+" Indices Found"))

	if !c.styled {
		for _, name := range names {
			fmt.Fprintln(c.out, name)
		}
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Index"})
	for i, name := range names {
		t.AppendRow(table.Row{i + 1, name})
	}
	t.Render()
}

// FilesWritten prints how many files were written and up to three names.
func (c *Console) FilesWritten(names []string) {
	fmt.Fprintf(c.out, "Number of files written: %s\n", c.bold(strconv.Itoa(len(names))))
	if len(names) > maxListed {
		fmt.Fprintf(c.out, "Filenames: %s ... (too many to show)\n", c.bold(listNames(names[:maxListed])))
		return
	}
	fmt.Fprintf(c.out, "Filenames: %s\n", c.bold(listNames(names)))
}

// DocumentsIndexed prints how many documents were written to index.
func (c *Console) DocumentsIndexed(index string, count int) {
	fmt.Fprintf(c.out, "Documents indexed: %s\n", c.bold(strconv.Itoa(count)))
	fmt.Fprintf(c.out, "Index: %s\n", c.bold(index))
}

func listNames(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}
