package cmd

import (
	"fmt"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/layout"

	"github.com/spf13/cobra"
)

var flagLayoutTotal int64

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Show how the projected total is stacked as cash",
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().Int64Var(&flagLayoutTotal, "total", -1, "Lay out this amount instead of the projection")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(_ *cobra.Command, _ []string) error {
	total := flagLayoutTotal
	if total < 0 {
		p, err := inputParams()
		if err != nil {
			return err
		}
		total = projector().Project(p.MonthlySavings, p.StartAmount, p.DurationYears)
	}

	g := appCfg.Geometry
	res := layout.Layout(total, g)
	f := formatter()

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASH LAYOUT  " + f.Currency(total)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"In bills", f.Currency(res.Major)},
			{"In coins", f.Currency(res.Minor)},
			{"Stack height", cli.FormatLength(res.TotalHeight)},
			{"Piles", cli.FormatNumber(int64(len(res.Piles)))},
			{"Coin stack", cli.FormatLength(res.Coin.Height)},
		},
	}))

	if len(res.Piles) > 0 {
		const maxRows = 25
		rows := make([][]string, 0, min(len(res.Piles), maxRows))
		for i, p := range res.Piles {
			if i == maxRows {
				break
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				fmt.Sprintf("%d,%d", p.GridX, p.GridY),
				cli.FormatLength(p.Height),
				fmt.Sprintf("%.3f, %.3f", p.Position.X, p.Position.Z),
			})
		}
		title := "Piles"
		if len(res.Piles) > maxRows {
			title = fmt.Sprintf("Piles (first %d of %d)", maxRows, len(res.Piles))
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   title,
			Headers: []string{"#", "Cell", "Height", "Floor X, Z"},
			Rows:    rows,
		}))
	}

	fmt.Println("  Top view")
	fmt.Print(cli.RenderPileMap(res, g.MaxPileHeight))
	fmt.Printf("\n  Label at %.3f, %.3f, %.3f\n\n", res.LabelAnchor.X, res.LabelAnchor.Y, res.LabelAnchor.Z)
	return nil
}
