package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rosterfmt/pkg/order"
)

// rankCommand creates the rank command, a debugging aid that shows how size
// labels are normalized and ranked under the loaded configuration.
func (c *CLI) rankCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rank [label...]",
		Short: "Show how size labels are ranked",
		Long: `Rank prints the normalized form and rank of each label. Labels that match
no reference entry and no oversized form get the unknown rank and sort last.

Without arguments it lists the reference order.`,
		Example: `  rosterfmt rank XL xxl 3XL ｍ one
  rosterfmt rank`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.Config.BuildOrder()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = o.Entries()
			}
			fmt.Fprintln(cmd.OutOrStdout(), rankTable(o, args))
			return nil
		},
	}
}

// rankRows resolves each label against o.
func rankRows(o *order.Order, labels []string) [][]string {
	rows := make([][]string, len(labels))
	for i, l := range labels {
		rank, known := o.Resolve(l)
		status := iconSuccess
		if !known {
			status = iconWarning
		}
		rows[i] = []string{l, order.Normalize(l), strconv.Itoa(rank), status}
	}
	return rows
}

// rankTable renders the rank rows as a bordered table.
func rankTable(o *order.Order, labels []string) string {
	rows := rankRows(o, labels)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Label", "Normalized", "Rank", "Known").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(rows) && rows[row][3] != iconSuccess {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			switch col {
			case 2:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case 3:
				return StyleSuccess
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

