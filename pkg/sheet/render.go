package sheet

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/layout"
)

// Output name suffixes appended to the input's base name.
const (
	SuffixTiled     = "_sorted_formatted.xlsx"
	SuffixFlat      = "_sorted.xlsx"
	SuffixSeparated = "_separated.xlsx"
)

// Default sheet names of the sort and split workbooks.
const (
	DefaultSheetName      = "排序后数据"
	DefaultSplitSheetName = "Sheet1"
)

// OutputName derives an output file name from input: "dir/class.xls" with
// SuffixFlat becomes "class_sorted.xlsx".
func OutputName(input, suffix string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + suffix
}

// OutputPath joins OutputName with dir, defaulting to the input's directory.
func OutputPath(input, dir, suffix string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, OutputName(input, suffix))
}

// styles caches the style IDs used by the renderer.
type styles struct {
	header int
	align  map[layout.Align]int
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: string(layout.AlignCenter)},
	})
	if err != nil {
		return nil, err
	}
	s := &styles{header: header, align: make(map[layout.Align]int)}
	for _, a := range []layout.Align{layout.AlignLeft, layout.AlignCenter} {
		id, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: string(a)}})
		if err != nil {
			return nil, err
		}
		s.align[a] = id
	}
	return s, nil
}

// newWorkbook returns a workbook whose only sheet is named sheet.
func newWorkbook(sheet string) (*excelize.File, error) {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := errors.ValidateSheetName(sheet); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "name sheet %q", sheet)
	}
	return f, nil
}

// RenderPlan writes p into a new workbook with a single sheet.
func RenderPlan(p *layout.Plan, sheet string) (*excelize.File, error) {
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	if err := renderPlan(f, f.GetSheetName(0), p); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render plan")
	}
	return f, nil
}

func renderPlan(f *excelize.File, sheet string, p *layout.Plan) error {
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	for _, c := range p.Cells() {
		cell, err := excelize.CoordinatesToCellName(c.Column, c.Row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, c.Value); err != nil {
			return err
		}
		style := st.align[c.Align]
		if c.Header {
			style = st.header
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}

	for col, width := range p.Widths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// RenderTable writes a bold centred header row followed by rows into a new
// workbook with a single sheet.
func RenderTable(header []string, rows [][]string, sheet string) (*excelize.File, error) {
	f, err := newWorkbook(sheet)
	if err != nil {
		return nil, err
	}
	if err := renderTable(f, f.GetSheetName(0), header, rows); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render table")
	}
	return f, nil
}

func renderTable(f *excelize.File, sheet string, header []string, rows [][]string) error {
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	write := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		vals := make([]any, len(values))
		for i, v := range values {
			vals[i] = v
		}
		return f.SetSheetRow(sheet, cell, &vals)
	}

	if err := write(1, header); err != nil {
		return err
	}
	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
			return err
		}
	}
	for i, r := range rows {
		if err := write(i+2, r); err != nil {
			return err
		}
	}
	return nil
}

// Encode serializes f as xlsx and closes it.
func Encode(f *excelize.File) ([]byte, error) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode workbook")
	}
	return buf.Bytes(), nil
}

// WriteFile writes encoded workbook data to path, creating the parent
// directory.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Save writes f to path, creating the parent directory, and closes f.
func Save(f *excelize.File, path string) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
