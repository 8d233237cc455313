package sheet

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

// utf8BOM prefixes CSV files exported by spreadsheet applications.
const utf8BOM = "\ufeff"

func readDelimited(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode delimited text")
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}
