// Package pipeline provides the roster processing pipeline for rosterfmt.
//
// This package implements the complete read → sort → layout → render
// pipeline used by both the CLI and the HTTP API, so that a roster produces
// the same workbook regardless of the entry point.
//
// # Architecture
//
// The sort pipeline consists of four stages:
//
//  1. Read: Decode the source table (xlsx, xls, csv or tsv)
//  2. Sort: Rank labels and order records by the chosen strategy
//  3. Layout: Tile the sorted records into column groups, or lay them flat
//  4. Render: Write the plan into a new xlsx workbook
//
// The split pipeline reads a table, splits the composite column of each row
// into Latin and CJK parts, and renders a three-column workbook.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Sort(ctx, pipeline.Options{
//	    Input:        "class3.xlsx",
//	    RowsPerGroup: 25,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath)
//
// Tables that are already in memory go through [Runner.SortTable] and
// [Runner.SplitTable], which return the encoded workbook in
// [Result.Workbook] without touching the filesystem.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rosterfmt/pkg/bilingual"
	"github.com/matzehuels/rosterfmt/pkg/config"
	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/layout"
	"github.com/matzehuels/rosterfmt/pkg/order"
	"github.com/matzehuels/rosterfmt/pkg/roster"
	"github.com/matzehuels/rosterfmt/pkg/sheet"
)

// Header used for the B column of split output when the source has none.
const DefaultBHeader = "B"

// OriginalHeader labels the column that keeps unsplittable source values.
const OriginalHeader = "Original"

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Input string `json:"input,omitempty"` // source path; empty for in-memory tables
	Sheet string `json:"sheet,omitempty"` // source worksheet; empty for the first

	// Sort options
	RowsPerGroup int    `json:"rows_per_group,omitempty"`
	Flat         bool   `json:"flat,omitempty"`     // single table instead of tiled groups
	Strategy     string `json:"strategy,omitempty"` // "full" or "simple"

	// Split options
	KeepUnparsed bool `json:"keep_unparsed,omitempty"`

	// Output options
	OutputDir   string `json:"output_dir,omitempty"`
	OutputSheet string `json:"output_sheet,omitempty"`

	// Runtime options (not serialized)
	Config *config.Config `json:"-"`
	Logger *log.Logger    `json:"-"`

	order    *order.Order
	strategy roster.Strategy
	layout   layout.Config
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Records are the sorted records. They are set even when the layout
	// stage fails, so callers can report what would have been written.
	Records []roster.Record

	// Unrecognized lists labels that matched no rank, in first-seen order.
	Unrecognized []string

	// Plan is the computed layout (sort only).
	Plan *layout.Plan

	// Rows are the split rows (split only).
	Rows []bilingual.Row

	// Workbook is the encoded xlsx output.
	Workbook []byte

	// OutputPath is where Workbook was written. Empty for in-memory runs.
	OutputPath string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records      int
	Groups       int
	Unrecognized int
	Unparsed     int
	ReadTime     time.Duration
	SortTime     time.Duration
	SplitTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// ValidateForSort checks sort options and applies defaults from Config.
// RowsPerGroup falls back to the config file; a tiled run without either is
// an error. Strategy defaults to "simple" for flat output and to the config
// file strategy otherwise.
func (o *Options) ValidateForSort() error {
	o.setDefaults()

	strategy := o.Strategy
	if strategy == "" && o.Flat {
		strategy = roster.Simple.String()
	}
	if strategy == "" {
		strategy = o.Config.Layout.Strategy
	}
	s, err := roster.ParseStrategy(strategy)
	if err != nil {
		return err
	}
	o.strategy = s
	o.Strategy = s.String()

	if !o.Flat {
		if o.RowsPerGroup == 0 {
			o.RowsPerGroup = o.Config.Layout.RowsPerGroup
		}
		if o.RowsPerGroup == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "rows per group is required for tiled output")
		}
		if err := errors.ValidateRowsPerGroup(o.RowsPerGroup); err != nil {
			return err
		}
	}

	if o.order, err = o.Config.BuildOrder(); err != nil {
		return err
	}
	if o.layout, err = o.Config.LayoutConfig(o.RowsPerGroup, o.Flat); err != nil {
		return err
	}
	return nil
}

// ValidateForSplit applies split defaults from Config.
func (o *Options) ValidateForSplit() error {
	o.setDefaults()
	if o.Config.Split.KeepUnparsed {
		o.KeepUnparsed = true
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.OutputDir == "" {
		o.OutputDir = o.Config.Output.Dir
	}
	if o.OutputSheet == "" {
		o.OutputSheet = o.Config.Output.Sheet
	}
}

// layoutMode names the layout for hooks and logs.
func (o *Options) layoutMode() string {
	if o.Flat {
		return "flat"
	}
	return "tiled"
}

// OutputSuffix returns the file name suffix of sort output.
func (o *Options) OutputSuffix() string {
	if o.Flat {
		return sheet.SuffixFlat
	}
	return sheet.SuffixTiled
}
