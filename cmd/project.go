package cmd

import (
	"fmt"

	"github.com/dset/arsavings/internal/cli"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project savings year by year",
	RunE:  runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

func runProject(_ *cobra.Command, _ []string) error {
	p, err := inputParams()
	if err != nil {
		return err
	}
	proj := projector()
	f := formatter()

	schedule := proj.Schedule(p.MonthlySavings, p.StartAmount, p.DurationYears)
	total := proj.Project(p.MonthlySavings, p.StartAmount, p.DurationYears)
	contributed := p.StartAmount + 12*p.MonthlySavings*p.DurationYears

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SAVINGS  %s at %s", cli.FormatYears(p.DurationYears), cli.FormatPercent(proj.Rate))))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Monthly savings", f.Currency(p.MonthlySavings)},
			{"Start amount", f.Currency(p.StartAmount)},
			{"---"},
			{"Contributed", f.Currency(contributed)},
			{"Growth", f.Currency(total - contributed)},
			{"Total", f.Currency(total)},
		},
	}))

	if len(schedule) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(schedule))
	values := make([]float64, 0, len(schedule))
	for _, yp := range schedule {
		rows = append(rows, []string{
			fmt.Sprintf("%d", yp.Year),
			f.Currency(yp.Contributed),
			f.Currency(yp.Total - yp.Contributed),
			f.Currency(yp.Total),
		})
		values = append(values, float64(yp.Total))
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Year",
		Headers: []string{"Year", "Contributed", "Growth", "Total"},
		Rows:    rows,
	}))
	fmt.Printf("  Growth  %s\n\n", cli.RenderSparkline(values))
	return nil
}
