package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rosterfmt/pkg/bilingual"
	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/observability"
	"github.com/matzehuels/rosterfmt/pkg/sheet"
)

// Separate runs the read → split → render pipeline for the file at
// opts.Input and writes <base>_separated.xlsx.
func (r *Runner) Separate(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSplit(); err != nil {
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

	result, err := r.SplitTable(ctx, tbl, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ReadTime = readTime

	result.OutputPath = sheet.OutputPath(opts.Input, opts.OutputDir, sheet.SuffixSeparated)
	if err := sheet.WriteFile(result.OutputPath, result.Workbook); err != nil {
		return result, fmt.Errorf("write: %w", err)
	}
	opts.Logger.Info("wrote workbook", "run", result.RunID, "path", result.OutputPath)
	return result, nil
}

// SplitTable splits the first column of tbl and renders the
// English, B, Chinese workbook.
func (r *Runner) SplitTable(ctx context.Context, tbl *sheet.Table, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSplit(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	pairs, err := tbl.Pairs()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	splitStart := time.Now()
	rows, unparsed := bilingual.SplitAll(pairs)
	result.Rows = rows
	result.Stats.Records = len(rows)
	result.Stats.Unparsed = unparsed
	result.Stats.SplitTime = time.Since(splitStart)
	hooks := observability.Pipeline()
	hooks.OnSplitComplete(ctx, len(rows), unparsed, result.Stats.SplitTime)

	logger.Info("split names", "rows", len(rows), "unparsed", unparsed)
	for _, row := range rows {
		if !row.Parsed() {
			logger.Debug("could not split", "value", row.Composite)
		}
	}
	if unparsed > 0 {
		logger.Warn("some names could not be split; their cells are left empty", "count", unparsed)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	renderStart := time.Now()
	header, cells := SplitCells(tbl, rows, opts)
	sheetName := opts.OutputSheet
	if sheetName == "" {
		sheetName = sheet.DefaultSplitSheetName
	}
	data, err := renderTable(header, cells, sheetName)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, len(data), result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Workbook = data
	return result, nil
}

func renderTable(header []string, cells [][]string, sheetName string) ([]byte, error) {
	f, err := sheet.RenderTable(header, cells, sheetName)
	if err != nil {
		return nil, err
	}
	return sheet.Encode(f)
}

// SplitCells lays out split rows as English, B, Chinese columns, with an
// Original column for unsplittable values when opts.KeepUnparsed is set.
// The middle column keeps the source's header only with Split.SourceHeader.
func SplitCells(tbl *sheet.Table, rows []bilingual.Row, opts Options) ([]string, [][]string) {
	bHeader := DefaultBHeader
	if opts.Config.Split.SourceHeader && len(tbl.Header) > 1 && tbl.Header[1] != "" {
		bHeader = tbl.Header[1]
	}
	header := []string{opts.Config.Split.LatinHeader, bHeader, opts.Config.Split.CJKHeader}
	if opts.KeepUnparsed {
		header = append(header, OriginalHeader)
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		c := []string{row.Latin, row.B, row.CJK}
		if opts.KeepUnparsed {
			original := ""
			if !row.Parsed() {
				original = row.Composite
			}
			c = append(c, original)
		}
		cells[i] = c
	}
	return header, cells
}
