package layout_test

import (
	"fmt"

	"github.com/matzehuels/rosterfmt/pkg/layout"
	"github.com/matzehuels/rosterfmt/pkg/roster"
)

func ExampleTile() {
	sorted := roster.NewSorter(nil, roster.Full).Sort([]roster.Record{
		{Name: "Alice", Label: "XL"},
		{Name: "Bo", Label: "S"},
		{Name: "Cy", Label: "XL"},
	})

	plan, err := layout.Tile(sorted, layout.Config{RowsPerGroup: 2})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, pl := range plan.Placements {
		g := plan.Groups[pl.Group]
		fmt.Printf("%d %-5s -> %s%d\n", pl.Record.Seq, pl.Record.Name, g.Columns[0], pl.SheetRow())
	}
	// Output:
	// 1 Bo    -> A2
	// 2 Cy    -> A3
	// 3 Alice -> D2
}

func ExampleGroup() {
	for _, i := range []int{0, 1, 8, 51} {
		g, _ := layout.Group(i)
		fmt.Println(i, g.Columns)
	}
	_, err := layout.Group(layout.MaxGroups)
	fmt.Println(err != nil)
	// Output:
	// 0 [A B C]
	// 1 [D E F]
	// 8 [Y Z AA]
	// 51 [EX EY EZ]
	// true
}
