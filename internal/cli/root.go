package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rosterfmt/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The configuration file is loaded in PersistentPreRunE, so every
// subcommand sees c.Config with file values applied over the defaults.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Rosterfmt sorts and lays out size rosters for printing",
		Long: `Rosterfmt reads a roster of names and size labels from a spreadsheet, orders
it by size (S < M < L < XL < 2XL ...), numbers the records and writes a new
workbook, either as one table or tiled into repeating column groups that fit
a printed page. It can also split "张三John" style names into separate
Chinese and English columns.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/"+appName+"/config.toml)")

	// Register all subcommands
	root.AddCommand(c.sortCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
