// Package layout places sorted roster records on a spreadsheet grid.
//
// # Column groups
//
// Output is organised in column groups of three columns each: sequence
// number, name and label. Group g occupies spreadsheet columns 3g+1..3g+3,
// named with the spreadsheet alphabet (A..Z, then AA, AB, ...). [Group]
// generates groups explicitly and is capped at [MaxGroups].
//
// # Tiling
//
// [Tile] paginates records into groups of at most Config.RowsPerGroup rows.
// Group 0 receives the first RowsPerGroup records, group 1 the next, and so
// on; only the last group may be partially filled. Every group repeats the
// header row at row 1 and starts its data at row 2. A record count above
// MaxGroups × RowsPerGroup is a [errors.ErrCodeCapacityExceeded] error; the
// planner never truncates.
//
// [Flat] places every record in a single group, for single-table output.
//
// # Rendering directives
//
// A [Plan] carries everything a renderer needs besides the values: the
// alignment of each field ([FieldIndex] and [FieldLabel] centred,
// [FieldName] left-aligned), the bold centred header style, and a width per
// occupied column. [Plan.Cells] flattens the plan into positioned cells.
//
// Widths follow a [Width] policy: a fixed width for every occupied column, or
// a fitted width of (longest value in runes + padding) × scale.
package layout
