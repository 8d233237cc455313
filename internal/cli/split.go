package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rosterfmt/pkg/pipeline"
)

// splitOpts holds the command-line flags for the split command.
type splitOpts struct {
	sheet        string // source worksheet
	outputDir    string // output directory; empty writes next to the input
	keepUnparsed bool   // keep names that could not be split in an extra column
}

// splitCommand creates the split command.
func (c *CLI) splitCommand() *cobra.Command {
	var opts splitOpts

	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split bilingual names into English and Chinese columns",
		Long: `Split reads a table whose first column holds names such as "张三John" or
"李四 Mary Li" and writes <name>_separated.xlsx with the columns English, B and
Chinese. The second source column is carried through unchanged.

Names without both parts in that order are left empty in both name columns. Use
--keep-unparsed to copy them into an extra Original column.`,
		Example: `  rosterfmt split names.xlsx
  rosterfmt split names.csv --keep-unparsed -o out/`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: rosterFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runSplit(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "source worksheet (default first)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default next to input)")
	cmd.Flags().BoolVar(&opts.keepUnparsed, "keep-unparsed", false, "copy unsplittable names into an Original column")

	return cmd
}

// runSplit runs the split pipeline and reports the result.
func (c *CLI) runSplit(ctx context.Context, input string, opts *splitOpts) error {
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

	logger.Infof("Splitting %s", input)

	spin := c.spinner(ctx, "Splitting names...")
	spin.Start()
	result, err := c.newRunner().Separate(ctx, pipeline.Options{
		Input:        input,
		Sheet:        sheetName,
		KeepUnparsed: opts.keepUnparsed,
		OutputDir:    opts.outputDir,
		Config:       c.Config,
		Logger:       logger,
	})
	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
			return context.Canceled
		}
		spin.StopWithError("Split failed")
		return err
	}
	spin.StopWithSuccess("Split " + StyleHighlight.Render(input))

	printFile(result.OutputPath)
	printStats(result.Stats)
	if result.Stats.Unparsed > 0 && !opts.keepUnparsed {
		printDetail("Use --keep-unparsed to keep the original of unsplit names")
	}

	prog.done(fmt.Sprintf("Split %d names", result.Stats.Records))
	return nil
}
