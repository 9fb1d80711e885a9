package cmd

import (
	"errors"
	"fmt"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/reveal"

	"github.com/spf13/cobra"
)

var revealCmd = &cobra.Command{
	Use:   "reveal",
	Short: "Show which parts of the car or home the savings pay for",
	RunE:  runReveal,
}

func init() {
	rootCmd.AddCommand(revealCmd)
}

func runReveal(_ *cobra.Command, _ []string) error {
	p, err := inputParams()
	if err != nil {
		return err
	}
	mode, err := inputMode()
	if err != nil {
		return err
	}
	if !mode.IsAsset() {
		mode = model.ModeCar
	}
	asset, ok := appCfg.Assets.ForMode(mode)
	if !ok {
		return errors.New("no asset configured for " + mode.String())
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	var names []string
	source := "built-in"
	if info, found := catalog.Find(asset.File); found && info.Kind == model.AssetModel && len(info.Submeshes) > 0 {
		source = info.Name
		for _, sm := range info.Submeshes {
			names = append(names, sm.Name)
		}
	} else {
		for i := range asset.DefaultSubmeshes {
			names = append(names, fmt.Sprintf("part %d", i+1))
		}
	}

	total := projector().Project(p.MonthlySavings, p.StartAmount, p.DurationYears)
	plan := reveal.Compute(total, asset.Price, len(names), asset.Seed)
	f := formatter()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  %s of %s", cli.FormatPercent(plan.Fraction()), f.Currency(total), f.Currency(int64(asset.Price)))))
	fmt.Println()
	fmt.Printf("  %s  (%s)\n\n", cli.RenderRevealBar(plan.Count(), plan.Len(), 30), source)

	rows := make([][]string, 0, len(names))
	for _, i := range plan.Order() {
		state := "hidden"
		if plan.Revealed(i) {
			state = "shown"
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i), names[i], state})
	}
	if len(rows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Reveal Order",
			Headers: []string{"#", "Part", "State"},
			Rows:    rows,
		}))
	}
	return nil
}
