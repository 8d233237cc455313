// Package pkg provides the core libraries for rosterfmt roster formatting.
//
// # Overview
//
// Rosterfmt turns a class or team roster of names and size labels into a
// print-ready workbook: records ordered from the smallest to the largest
// size, numbered, and either tiled into repeating column groups or written
// as one table. The pkg directory is organized into three areas:
//
//  1. Domain logic ([order], [roster], [layout], [bilingual])
//  2. Spreadsheet I/O ([sheet])
//  3. Orchestration and surfaces ([pipeline], [config], [api])
//
// # Architecture
//
// The typical data flow through rosterfmt:
//
//	xlsx / xls / csv / tsv
//	         ↓
//	    [sheet] package (decode the first two columns)
//	         ↓
//	    [order] + [roster] packages (rank labels, sort records)
//	         ↓
//	    [layout] package (tiled groups or a flat table)
//	         ↓
//	    [sheet] package (render the xlsx workbook)
//
// # Quick Start
//
// Sort records and tile them into groups of 25:
//
//	sorter := roster.NewSorter(order.Default(), roster.Full)
//	sorted := sorter.Sort(records)
//	plan, _ := layout.Tile(sorted, layout.Config{RowsPerGroup: 25})
//	f, _ := sheet.RenderPlan(plan, sheet.DefaultSheetName)
//	_ = sheet.Save(f, "class3_sorted_formatted.xlsx")
//
// # Main Packages
//
// [order] - Size label ranking. A reference list plus the oversized rule
// ("XXL", "12XL") assigns every label a rank; unknown labels sort last.
//
// [roster] - Record sorting with the Full and Simple strategies.
//
// [layout] - Placement of sorted records into at most 52 three-column
// groups, or into one flat table, with fixed or content-fitted widths.
//
// [bilingual] - Splitting of "张三John" style names into their CJK and
// Latin parts.
//
// [sheet] - Reading source tables and rendering plans into workbooks.
//
// [pipeline] - The read → sort → layout → render and read → split → render
// pipelines shared by the CLI and the API.
//
// [config] - TOML configuration with defaults and validation.
//
// [api] - HTTP surface over the pipelines.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Optional hooks for pipeline and API metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [order]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/order
// [roster]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/roster
// [layout]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/layout
// [bilingual]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/bilingual
// [sheet]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/sheet
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/rosterfmt/pkg/observability
package pkg
