package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/layout"
	"github.com/matzehuels/rosterfmt/pkg/observability"
	"github.com/matzehuels/rosterfmt/pkg/roster"
	"github.com/matzehuels/rosterfmt/pkg/sheet"
)

// Runner executes pipeline runs.
// Both CLI and API use this to avoid duplicating stage wiring.
//
// The Runner is stateless except for the logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner logging to logger.
// If logger is nil, the default charm logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Sort runs the complete read → sort → layout → render pipeline for the
// file at opts.Input and writes the workbook next to it, or into
// opts.OutputDir.
//
// When the layout stage fails the returned Result still holds the sorted
// records; no file is written.
func (r *Runner) Sort(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSort(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input path is required")
	}

	readStart := time.Now()
	tbl, err := Read(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	readTime := time.Since(readStart)

	result, err := r.SortTable(ctx, tbl, opts)
	if result != nil {
		result.Stats.ReadTime = readTime
	}
	if err != nil {
		return result, err
	}

	result.OutputPath = sheet.OutputPath(opts.Input, opts.OutputDir, opts.OutputSuffix())
	if err := sheet.WriteFile(result.OutputPath, result.Workbook); err != nil {
		return result, fmt.Errorf("write: %w", err)
	}
	opts.Logger.Info("wrote workbook", "run", result.RunID, "path", result.OutputPath)
	return result, nil
}

// SortTable runs the sort → layout → render stages on a decoded table.
func (r *Runner) SortTable(ctx context.Context, tbl *sheet.Table, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSort(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	records, err := tbl.Records()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)

	// Stage 1: Sort
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortStart := time.Now()
	sorter := roster.NewSorter(opts.order, opts.strategy)
	result.Records = sorter.Sort(records)
	result.Unrecognized = roster.Unrecognized(opts.order, result.Records)
	result.Stats.Records = len(result.Records)
	result.Stats.Unrecognized = len(result.Unrecognized)
	result.Stats.SortTime = time.Since(sortStart)
	hooks := observability.Pipeline()
	hooks.OnSortComplete(ctx, opts.Strategy, result.Stats.Records, result.Stats.Unrecognized, result.Stats.SortTime)

	logger.Info("sorted records",
		"records", len(result.Records),
		"strategy", opts.Strategy,
		"duration", result.Stats.SortTime)
	if len(result.Unrecognized) > 0 {
		logger.Warn("unrecognized labels sorted last", "labels", result.Unrecognized)
	}

	// Stage 2: Layout
	if err := ctx.Err(); err != nil {
		return result, err
	}
	layoutStart := time.Now()
	plan, err := Layout(result.Records, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.layoutMode(), 0, result.Stats.LayoutTime, err)
		return result, fmt.Errorf("layout: %w", err)
	}
	result.Plan = plan
	result.Stats.Groups = len(plan.Groups)
	hooks.OnLayoutComplete(ctx, opts.layoutMode(), result.Stats.Groups, result.Stats.LayoutTime, nil)

	logger.Info("computed layout",
		"groups", len(plan.Groups),
		"flat", opts.Flat,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	if err := ctx.Err(); err != nil {
		return result, err
	}
	renderStart := time.Now()
	data, err := RenderPlan(plan, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, len(data), result.Stats.RenderTime, err)
	if err != nil {
		return result, fmt.Errorf("render: %w", err)
	}
	result.Workbook = data

	logger.Debug("rendered workbook", "bytes", len(data), "duration", result.Stats.RenderTime)
	return result, nil
}

// Read decodes the table at opts.Input.
func Read(ctx context.Context, opts Options) (*sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sheet.Read(opts.Input, sheet.ReadOptions{Sheet: opts.Sheet})
}

// Layout plans sorted records according to validated options.
func Layout(records []roster.Record, opts Options) (*layout.Plan, error) {
	if opts.Flat {
		return layout.Flat(records, opts.layout)
	}
	return layout.Tile(records, opts.layout)
}

// RenderPlan renders a plan into an encoded workbook.
func RenderPlan(p *layout.Plan, opts Options) ([]byte, error) {
	f, err := sheet.RenderPlan(p, opts.OutputSheet)
	if err != nil {
		return nil, err
	}
	return sheet.Encode(f)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
