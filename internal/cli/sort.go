package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rosterfmt/pkg/config"
	"github.com/matzehuels/rosterfmt/pkg/errors"
	"github.com/matzehuels/rosterfmt/pkg/layout"
	"github.com/matzehuels/rosterfmt/pkg/pipeline"
	"github.com/matzehuels/rosterfmt/pkg/sheet"
)

// sortOpts holds the command-line flags for the sort command.
type sortOpts struct {
	rows        int    // records per column group; 0 falls back to config or a prompt
	flat        bool   // one table instead of tiled groups
	strategy    string // "full" or "simple"
	width       string // "fixed" or "fit"; empty keeps the config value
	sheet       string // source worksheet
	outputDir   string // output directory; empty writes next to the input
	outputSheet string // output worksheet name
}

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	var opts sortOpts

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort a roster by size and write a print-ready workbook",
		Long: `Sort reads a roster whose first two columns hold names and size labels,
orders it from the smallest to the largest size and writes a new workbook.

By default the sorted records are tiled into column groups of --rows records
each (A-C, D-F, ...), at most 52 groups per sheet. With --flat they are written
as one numbered table instead.

The output is written next to the input as <name>_sorted_formatted.xlsx, or
<name>_sorted.xlsx with --flat.`,
		Example: `  rosterfmt sort class3.xlsx --rows 25
  rosterfmt sort roster.csv --flat
  rosterfmt sort roster.csv -r 30 --width fit
  rosterfmt sort roster.xlsx --sheet 二班 -r 20 -o out/`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: rosterFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runSort(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.rows, "rows", "r", 0, "records per column group (tiled output)")
	cmd.Flags().BoolVar(&opts.flat, "flat", false, "write a single table instead of column groups")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "sort strategy: full, simple (default full; simple with --flat)")
	cmd.Flags().StringVar(&opts.width, "width", "", "tiled column widths: fixed, fit (flat output always fits)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "source worksheet (default first)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default next to input)")
	cmd.Flags().StringVar(&opts.outputSheet, "output-sheet", "", "output worksheet name")

	return cmd
}

// runSort resolves missing input interactively, runs the sort pipeline and
// reports the result.
func (c *CLI) runSort(ctx context.Context, input string, opts *sortOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	input, err := c.resolveInput(ctx, input)
	if err != nil {
		return err
	}
	sheetName, err := c.resolveSheet(ctx, input, opts.sheet)
	if err != nil {
		return err
	}

	cfg, err := c.configWithWidth(opts.width)
	if err != nil {
		return err
	}

	rows := opts.rows
	if !opts.flat && rows == 0 && cfg.Layout.RowsPerGroup == 0 {
		if rows, err = c.resolveRows(ctx); err != nil {
			return err
		}
	}

	logger.Infof("Sorting %s", input)

	spin := c.spinner(ctx, "Sorting roster...")
	spin.Start()
	result, err := c.newRunner().Sort(ctx, pipeline.Options{
		Input:        input,
		Sheet:        sheetName,
		RowsPerGroup: rows,
		Flat:         opts.flat,
		Strategy:     opts.strategy,
		OutputDir:    opts.outputDir,
		OutputSheet:  opts.outputSheet,
		Config:       cfg,
		Logger:       logger,
	})
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
			return context.Canceled
		}
		spin.StopWithError("Sort failed")
		if errors.Is(err, errors.ErrCodeCapacityExceeded) && result != nil {
			printCapacityHint(len(result.Records))
		}
		return err
	}
	spin.StopWithSuccess("Sorted " + StyleHighlight.Render(input))

	printFile(result.OutputPath)
	printStats(result.Stats)
	if len(result.Unrecognized) > 0 {
		printWarning("Unrecognized labels sorted last: %s", strings.Join(result.Unrecognized, ", "))
	}

	prog.done(fmt.Sprintf("Sorted %d records", result.Stats.Records))
	return nil
}

// printCapacityHint suggests settings that fit n records on one sheet.
func printCapacityHint(n int) {
	need := (n + layout.MaxGroups - 1) / layout.MaxGroups
	printWarning("%d records do not fit in %d groups", n, layout.MaxGroups)
	printDetail("Use --rows %d or more, or --flat", need)
}

// configWithWidth returns the loaded config with the --width override
// applied. The shared config is not modified.
func (c *CLI) configWithWidth(width string) (*config.Config, error) {
	cfg := *c.Config
	if width == "" {
		return &cfg, nil
	}
	cfg.Layout.Width = width
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveInput prompts for the roster path when none was given.
func (c *CLI) resolveInput(ctx context.Context, input string) (string, error) {
	if input != "" {
		return input, nil
	}
	if !c.Interactive {
		return "", errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	return prompt(ctx, "Roster file:", validateNonEmpty)
}

// resolveRows prompts for the group size of tiled output.
func (c *CLI) resolveRows(ctx context.Context) (int, error) {
	if !c.Interactive {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "--rows is required for tiled output (or use --flat)")
	}
	v, err := prompt(ctx, "Records per group:", validatePositiveInt)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// resolveSheet picks a worksheet when the workbook has several and none was
// named. Non-interactive runs read the first sheet.
func (c *CLI) resolveSheet(ctx context.Context, input, want string) (string, error) {
	if want != "" || !c.Interactive {
		return want, nil
	}
	names, err := sheet.SheetNames(input)
	if err != nil {
		return "", err
	}
	if len(names) < 2 {
		return "", nil
	}
	return pickSheet(ctx, names)
}
