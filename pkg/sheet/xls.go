package sheet

import (
	"bytes"
	"io"

	"github.com/extrame/xls"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

// xlsCharset is the fallback charset for pre-BIFF8 workbooks; BIFF8 strings
// are UTF-16 and ignore it.
const xlsCharset = "utf-8"

func readXLS(r io.Reader, want string) (string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInternal, err, "read xls workbook")
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode xls workbook")
	}

	sheet, err := pickSheet(xlsNames(wb), want)
	if err != nil {
		return "", nil, err
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil || ws.Name != sheet {
			continue
		}
		var rows [][]string
		for ri := 0; ri <= int(ws.MaxRow); ri++ {
			row := ws.Row(ri)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for ci := 0; ci < row.LastCol(); ci++ {
				cells = append(cells, row.Col(ci))
			}
			rows = append(rows, cells)
		}
		return sheet, rows, nil
	}
	return "", nil, errors.New(errors.ErrCodeSheetNotFound, "sheet %q not found", sheet)
}

func xlsSheetNames(path string) ([]string, error) {
	wb, err := xls.Open(path, xlsCharset)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook %s", path)
	}
	return xlsNames(wb), nil
}

func xlsNames(wb *xls.WorkBook) []string {
	var names []string
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			names = append(names, ws.Name)
		}
	}
	return names
}
