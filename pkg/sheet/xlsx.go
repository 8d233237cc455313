package sheet

import (
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

func readXLSX(r io.Reader, want string) (string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode xlsx workbook")
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), want)
	if err != nil {
		return "", nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read sheet %q", sheet)
	}
	return sheet, rows, nil
}

func xlsxSheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook %s", path)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// pickSheet returns want if the workbook has it, or the first sheet when
// want is empty.
func pickSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", errors.New(errors.ErrCodeInputShape, "workbook has no sheets")
	}
	if want == "" {
		return sheets[0], nil
	}
	if !slices.Contains(sheets, want) {
		return "", errors.New(errors.ErrCodeSheetNotFound, "sheet %q not found (have %v)", want, sheets)
	}
	return want, nil
}
