package sheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeWorkbook creates an xlsx file with the given sheets, each a list of
// rows written from A1.
func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"a.xlsx", FormatXLSX, false},
		{"A.XLSX", FormatXLSX, false},
		{"a.xlsm", FormatXLSX, false},
		{"dir.v2/a.xls", FormatXLS, false},
		{"a.csv", FormatCSV, false},
		{"a.tsv", FormatTSV, false},
		{"a.ods", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
			t.Errorf("DetectFormat(%q) code = %v", tt.name, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestReadCSV(t *testing.T) {
	path := writeFile(t, "class.csv", "\ufeff姓名,尺码,备注\n张三, xl ,\n\n,,\n李四,M\n王五,S,extra\n")

	tbl, err := Read(path, ReadOptions{})
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if tbl.Width() != 3 {
		t.Errorf("Width() = %d, want 3", tbl.Width())
	}
	if tbl.Header[0] != "姓名" {
		t.Errorf("Header[0] = %q, want BOM stripped", tbl.Header[0])
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (blank rows skipped)", len(tbl.Rows))
	}
	for i, r := range tbl.Rows {
		if len(r) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(r))
		}
	}

	records, err := tbl.Records()
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Name != "张三" || records[0].Label != "xl" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Name != "李四" || records[1].Label != "M" {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestReadTSV(t *testing.T) {
	path := writeFile(t, "list.tsv", "A\tB\n张三John\t3班\n")

	tbl, err := Read(path, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	pairs, err := tbl.Pairs()
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 1 || pairs[0].A != "张三John" || pairs[0].B != "3班" {
		t.Errorf("Pairs() = %+v", pairs)
	}
}

func TestReadInputShape(t *testing.T) {
	path := writeFile(t, "one.csv", "姓名\n张三\n李四\n")

	tbl, err := Read(path, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Records(); !errors.Is(err, errors.ErrCodeInputShape) {
		t.Errorf("Records() error = %v, want %s", err, errors.ErrCodeInputShape)
	}
	if _, err := tbl.Pairs(); !errors.Is(err, errors.ErrCodeInputShape) {
		t.Errorf("Pairs() error = %v, want %s", err, errors.ErrCodeInputShape)
	}

	empty := writeFile(t, "empty.csv", "")
	tbl, err = Read(empty, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := tbl.Require(2, "x"); !errors.Is(err, errors.ErrCodeInputShape) {
		t.Errorf("Require() on empty file = %v", err)
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.xlsx"), ReadOptions{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
	if _, err := Read("roster.ods", ReadOptions{}); !errors.Is(err, errors.ErrCodeUnsupportedFormat) {
		t.Errorf("ods error = %v, want %s", err, errors.ErrCodeUnsupportedFormat)
	}
	bad := writeFile(t, "bad.xlsx", "not a zip")
	if _, err := Read(bad, ReadOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("corrupt xlsx error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Cover":  {{"not", "this"}},
		"Roster": {{"Name", "Size"}, {"Alice", "XL"}, {"Bo", 120}},
	}, "Cover", "Roster")

	names, err := SheetNames(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "Cover,Roster" {
		t.Errorf("SheetNames() = %v", names)
	}

	tbl, err := Read(path, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Sheet != "Cover" || len(tbl.Rows) != 0 {
		t.Errorf("default sheet = %q with %d rows, want Cover with 0", tbl.Sheet, len(tbl.Rows))
	}

	tbl, err = Read(path, ReadOptions{Sheet: "Roster"})
	if err != nil {
		t.Fatal(err)
	}
	records, err := tbl.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[1].Name != "Bo" || records[1].Label != "120" {
		t.Errorf("Records() = %+v", records)
	}

	if _, err := Read(path, ReadOptions{Sheet: "Nope"}); !errors.Is(err, errors.ErrCodeSheetNotFound) {
		t.Errorf("missing sheet error = %v, want %s", err, errors.ErrCodeSheetNotFound)
	}
}

func TestReadFrom(t *testing.T) {
	tbl, err := ReadFrom(strings.NewReader("a,b\n1,2\n"), "upload.CSV", ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][1] != "2" {
		t.Errorf("ReadFrom() rows = %v", tbl.Rows)
	}
}

func TestReadXLS(t *testing.T) {
	path := filepath.Join("testdata", "table.xls")

	tbl, err := Read(path, ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Sheet != "Table" {
		t.Errorf("Sheet = %q, want Table", tbl.Sheet)
	}
	if got := strings.Join(tbl.Header, ","); got != "Code,Name,Description" {
		t.Errorf("Header = %q, want Code,Name,Description", got)
	}
	if len(tbl.Rows) != 11 {
		t.Errorf("len(Rows) = %d, want 11", len(tbl.Rows))
	}

	named, err := Read(path, ReadOptions{Sheet: "Table"})
	if err != nil {
		t.Fatal(err)
	}
	if named.Sheet != "Table" || len(named.Rows) != len(tbl.Rows) {
		t.Errorf("named sheet = %q with %d rows, want Table with %d", named.Sheet, len(named.Rows), len(tbl.Rows))
	}

	if _, err := Read(path, ReadOptions{Sheet: "Nope"}); !errors.Is(err, errors.ErrCodeSheetNotFound) {
		t.Errorf("missing sheet error = %v, want %s", err, errors.ErrCodeSheetNotFound)
	}
}

func TestSheetNames(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"csv", writeFile(t, "a.csv", "a,b\n"), ""},
		{"xls", filepath.Join("testdata", "table.xls"), "Table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := SheetNames(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Join(names, ","); got != tt.want {
				t.Errorf("SheetNames() = %v, want %q", names, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, dir, suffix, want string
	}{
		{"/data/class3.xlsx", "", SuffixTiled, "/data/class3_sorted_formatted.xlsx"},
		{"/data/class3.xls", "/out", SuffixFlat, "/out/class3_sorted.xlsx"},
		{"names.v2.csv", "", SuffixSeparated, "names.v2_separated.xlsx"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.dir, tt.suffix); got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputPath(%q, %q, %q) = %q, want %q", tt.input, tt.dir, tt.suffix, got, tt.want)
		}
	}
}
