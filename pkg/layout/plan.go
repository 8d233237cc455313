package layout

import (
	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/roster"
)

// DefaultHeaders are the header labels of a group: sequence number, name,
// size.
var DefaultHeaders = [ColumnsPerGroup]string{"序号", "姓名", "尺码"}

// Config controls plan construction.
type Config struct {
	// RowsPerGroup is the data-row capacity of one group. Required by Tile,
	// ignored by Flat.
	RowsPerGroup int

	// Headers label the index, name and label columns. Blank entries fall
	// back to DefaultHeaders.
	Headers [ColumnsPerGroup]string

	// Width is the column width policy.
	Width Width
}

func (c Config) headers() [ColumnsPerGroup]string {
	h := c.Headers
	for i := range h {
		if h[i] == "" {
			h[i] = DefaultHeaders[i]
		}
	}
	return h
}

// Placement positions one record within a group.
type Placement struct {
	Record roster.Record
	Group  int // index into Plan.Groups
	Row    int // 0-based offset below the header row
}

// SheetRow returns the 1-based sheet row of the placement.
func (p Placement) SheetRow() int { return FirstDataRow + p.Row }

// Plan is a complete grid assignment for a sorted record sequence.
type Plan struct {
	RowsPerGroup int // 0 for a flat plan
	Headers      [ColumnsPerGroup]string
	Groups       []ColumnGroup
	Placements   []Placement
	Widths       map[int]float64 // 1-based column number to width
}

// Cell is one positioned value with its rendering directives.
type Cell struct {
	Column int // 1-based
	Row    int // 1-based
	Value  any // int for FieldIndex, string otherwise
	Field  Field
	Align  Align
	Header bool // header cells are rendered bold
}

// Capacity returns the number of records the plan could hold: MaxGroups ×
// RowsPerGroup for a tiled plan, unbounded (-1) for a flat one.
func (p *Plan) Capacity() int {
	if p.RowsPerGroup == 0 {
		return -1
	}
	return MaxGroups * p.RowsPerGroup
}

// Cells returns every header and data cell of the plan, group by group,
// headers first within each group.
func (p *Plan) Cells() []Cell {
	cells := make([]Cell, 0, len(p.Groups)*ColumnsPerGroup+len(p.Placements)*ColumnsPerGroup)
	for _, g := range p.Groups {
		for _, f := range Fields {
			cells = append(cells, Cell{
				Column: g.Column(f),
				Row:    HeaderRow,
				Value:  p.Headers[f],
				Field:  f,
				Align:  AlignCenter,
				Header: true,
			})
		}
		for _, pl := range p.Placements {
			if pl.Group != g.Index {
				continue
			}
			values := recordValues(pl.Record)
			for _, f := range Fields {
				cells = append(cells, Cell{
					Column: g.Column(f),
					Row:    pl.SheetRow(),
					Value:  values[f],
					Field:  f,
					Align:  f.Align(),
				})
			}
		}
	}
	return cells
}

// GroupSizes returns the number of records placed in each group.
func (p *Plan) GroupSizes() []int {
	sizes := make([]int, len(p.Groups))
	for _, pl := range p.Placements {
		sizes[pl.Group]++
	}
	return sizes
}

// Tile paginates sorted records into column groups of cfg.RowsPerGroup rows.
// It fails with ErrCodeInvalidConfig when RowsPerGroup is not positive and
// with ErrCodeCapacityExceeded when the records do not fit in MaxGroups
// groups.
func Tile(records []roster.Record, cfg Config) (*Plan, error) {
	if cfg.RowsPerGroup <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"rows per group must be a positive integer, got %d", cfg.RowsPerGroup)
	}
	if err := cfg.Width.Validate(); err != nil {
		return nil, err
	}
	if capacity := MaxGroups * cfg.RowsPerGroup; len(records) > capacity {
		return nil, errors.New(errors.ErrCodeCapacityExceeded,
			"%d records exceed layout capacity of %d (%d groups x %d rows)",
			len(records), capacity, MaxGroups, cfg.RowsPerGroup)
	}

	n := (len(records) + cfg.RowsPerGroup - 1) / cfg.RowsPerGroup
	groups, err := Groups(n)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		RowsPerGroup: cfg.RowsPerGroup,
		Headers:      cfg.headers(),
		Groups:       groups,
		Placements:   make([]Placement, len(records)),
	}
	for i, r := range records {
		p.Placements[i] = Placement{
			Record: r,
			Group:  i / cfg.RowsPerGroup,
			Row:    i % cfg.RowsPerGroup,
		}
	}
	p.Widths = computeWidths(p, cfg.Width.withDefaults())
	return p, nil
}

// Flat places all records in group 0, one per row, for single-table output.
// The header row is emitted even when records is empty.
func Flat(records []roster.Record, cfg Config) (*Plan, error) {
	if err := cfg.Width.Validate(); err != nil {
		return nil, err
	}
	g, err := Group(0)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Headers:    cfg.headers(),
		Groups:     []ColumnGroup{g},
		Placements: make([]Placement, len(records)),
	}
	for i, r := range records {
		p.Placements[i] = Placement{Record: r, Row: i}
	}
	p.Widths = computeWidths(p, cfg.Width.withDefaults())
	return p, nil
}

// computeWidths measures every occupied column, header included.
func computeWidths(p *Plan, w Width) map[int]float64 {
	columns := make(map[int][]string, len(p.Groups)*ColumnsPerGroup)
	for _, g := range p.Groups {
		for _, f := range Fields {
			columns[g.Column(f)] = []string{p.Headers[f]}
		}
	}
	for _, pl := range p.Placements {
		g := p.Groups[pl.Group]
		values := recordValues(pl.Record)
		for _, f := range Fields {
			col := g.Column(f)
			columns[col] = append(columns[col], cellText(values[f]))
		}
	}

	widths := make(map[int]float64, len(columns))
	for col, values := range columns {
		widths[col] = w.measure(values)
	}
	return widths
}

func recordValues(r roster.Record) [ColumnsPerGroup]any {
	return [ColumnsPerGroup]any{r.Seq, r.Name, r.Label}
}
