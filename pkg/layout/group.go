package layout

import (
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/rosterfmt/pkg/errors"
)

const (
	// ColumnsPerGroup is the number of columns in one group.
	ColumnsPerGroup = 3

	// MaxGroups caps the number of groups on one sheet: one alphabet of
	// group slots plus one prefixed alphabet.
	MaxGroups = 26 + 26

	// HeaderRow is the 1-based row holding every group's header.
	HeaderRow = 1

	// FirstDataRow is the 1-based row of a group's first record.
	FirstDataRow = 2
)

// Field identifies a column within a group.
type Field int

const (
	FieldIndex Field = iota
	FieldName
	FieldLabel
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldIndex:
		return "index"
	case FieldName:
		return "name"
	case FieldLabel:
		return "label"
	}
	return "unknown"
}

// Align is a horizontal cell alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Align returns the data alignment of the field: names are left-aligned,
// sequence numbers and labels centred.
func (f Field) Align() Align {
	if f == FieldName {
		return AlignLeft
	}
	return AlignCenter
}

// Fields lists the fields of a group in column order.
var Fields = [ColumnsPerGroup]Field{FieldIndex, FieldName, FieldLabel}

// ColumnGroup is one three-column slot on the sheet.
type ColumnGroup struct {
	Index   int                     // 0-based group number
	First   int                     // 1-based column number of FieldIndex
	Columns [ColumnsPerGroup]string // column names, e.g. [D E F]
}

// Column returns the 1-based column number of f in the group.
func (g ColumnGroup) Column(f Field) int {
	return g.First + int(f)
}

// Group returns column group i (0-based). It fails for i outside
// [0, MaxGroups).
func Group(i int) (ColumnGroup, error) {
	if i < 0 || i >= MaxGroups {
		return ColumnGroup{}, errors.New(errors.ErrCodeCapacityExceeded,
			"column group %d out of range (max %d groups)", i, MaxGroups)
	}
	g := ColumnGroup{Index: i, First: i*ColumnsPerGroup + 1}
	for j := range g.Columns {
		name, err := excelize.ColumnNumberToName(g.First + j)
		if err != nil {
			return ColumnGroup{}, errors.Wrap(errors.ErrCodeInternal, err, "name column %d", g.First+j)
		}
		g.Columns[j] = name
	}
	return g, nil
}

// Groups returns the first n column groups.
func Groups(n int) ([]ColumnGroup, error) {
	if n > MaxGroups {
		return nil, errors.New(errors.ErrCodeCapacityExceeded,
			"%d column groups requested (max %d)", n, MaxGroups)
	}
	out := make([]ColumnGroup, 0, n)
	for i := 0; i < n; i++ {
		g, err := Group(i)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
