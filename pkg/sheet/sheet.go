// Package sheet reads source tables from spreadsheet files and renders
// layout plans and plain tables back into xlsx workbooks.
//
// # Reading
//
// [Read] and [ReadFrom] pick a decoder from the file extension:
//
//   - .xlsx, .xlsm: github.com/xuri/excelize/v2
//   - .xls: github.com/extrame/xls
//   - .csv, .tsv: encoding/csv
//
// The first row is the header. Cells are trimmed, blank rows are skipped and
// short rows are padded, so every row of a [Table] has [Table.Width] cells.
// Workflows state how many columns they need with [Table.Require], which
// fails with an INPUT_SHAPE error before any output is produced.
//
// # Writing
//
// [RenderPlan] materialises a [layout.Plan]: bold centred headers,
// per-column data alignment and the plan's column widths. [RenderTable]
// writes a header plus rows. Both return an open *excelize.File for the
// caller to [Save] or stream with File.Write.
package sheet

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/rosterfmt/pkg/bilingual"
	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/roster"
)

// Format is a supported source file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// DetectFormat returns the format implied by the extension of name.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	}
	return "", errors.New(errors.ErrCodeUnsupportedFormat,
		"unsupported file format %q (use .xlsx, .xls, .csv or .tsv)", filepath.Ext(name))
}

// ReadOptions selects what to read from a source file.
type ReadOptions struct {
	// Sheet names the worksheet to read. Empty means the first sheet.
	// Ignored for CSV and TSV.
	Sheet string
}

// Table is a decoded source table.
type Table struct {
	Sheet  string     // worksheet the table came from, empty for CSV/TSV
	Header []string   // first row, padded to Width
	Rows   [][]string // data rows, each padded to Width
}

// Width returns the number of columns in the table.
func (t *Table) Width() int { return len(t.Header) }

// Require fails with ErrCodeInputShape when the table has fewer than n
// columns. what describes the columns for the message.
func (t *Table) Require(n int, what string) error {
	if t.Width() < n {
		return errors.New(errors.ErrCodeInputShape,
			"table must contain at least %d columns (%s), found %d", n, what, t.Width())
	}
	return nil
}

// Records returns the first two columns as name/label records.
func (t *Table) Records() ([]roster.Record, error) {
	if err := t.Require(2, "name and label"); err != nil {
		return nil, err
	}
	out := make([]roster.Record, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = roster.Record{Name: row[0], Label: row[1]}
	}
	return out, nil
}

// Pairs returns the first two columns as composite/carry-through pairs.
func (t *Table) Pairs() ([]bilingual.Pair, error) {
	if err := t.Require(2, "composite name and B"); err != nil {
		return nil, err
	}
	out := make([]bilingual.Pair, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = bilingual.Pair{A: row[0], B: row[1]}
	}
	return out, nil
}

// Read decodes the table at path.
func Read(path string, opts ReadOptions) (*Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	return decode(f, format, opts)
}

// ReadFrom decodes a table from r. name supplies the extension.
func ReadFrom(r io.Reader, name string, opts ReadOptions) (*Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	return decode(r, format, opts)
}

// SheetNames lists the worksheets of a workbook in order. CSV and TSV files
// have none.
func SheetNames(path string) ([]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return xlsxSheetNames(path)
	case FormatXLS:
		return xlsSheetNames(path)
	}
	return nil, nil
}

func decode(r io.Reader, format Format, opts ReadOptions) (*Table, error) {
	var (
		sheet string
		rows  [][]string
		err   error
	)
	switch format {
	case FormatXLSX:
		sheet, rows, err = readXLSX(r, opts.Sheet)
	case FormatXLS:
		sheet, rows, err = readXLS(r, opts.Sheet)
	case FormatCSV:
		rows, err = readDelimited(r, ',')
	case FormatTSV:
		rows, err = readDelimited(r, '\t')
	default:
		err = errors.New(errors.ErrCodeUnsupportedFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return newTable(sheet, rows), nil
}

// newTable trims cells, drops blank rows and pads every row to the widest.
func newTable(sheet string, raw [][]string) *Table {
	var rows [][]string
	width := 0
	for _, r := range raw {
		cells := make([]string, len(r))
		blank := true
		for i, c := range r {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		// Trailing empty cells do not widen the table.
		n := len(cells)
		for n > 0 && cells[n-1] == "" {
			n--
		}
		width = max(width, n)
		rows = append(rows, cells[:n])
	}

	t := &Table{Sheet: sheet}
	if len(rows) == 0 {
		return t
	}
	for i := range rows {
		rows[i] = pad(rows[i], width)
	}
	t.Header = rows[0]
	t.Rows = rows[1:]
	return t
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
