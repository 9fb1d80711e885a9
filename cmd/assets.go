package cmd

import (
	"fmt"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/pipeline"

	"github.com/spf13/cobra"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List the models and textures found in the assets directory",
	RunE:  runAssets,
}

func init() {
	rootCmd.AddCommand(assetsCmd)
}

func runAssets(_ *cobra.Command, _ []string) error {
	if flagAssetsDir == "" {
		fmt.Println("\n  No assets directory configured; the scene uses built-in parts.")
		fmt.Println("  Pass --assets-dir or set general.assets_dir in the config.")
		return nil
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	assets := catalog.Assets()
	if len(assets) == 0 {
		fmt.Printf("\n  No .gltf, .glb, .png or .jpg files found in %s.\n", flagAssetsDir)
		return nil
	}
	sum := pipeline.Summarize(assets)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ASSETS  " + flagAssetsDir))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Models", cli.FormatNumber(int64(sum.Models))},
			{"Parts", cli.FormatNumber(int64(sum.Submeshes))},
			{"Largest model", fmt.Sprintf("%s (%d parts)", sum.LargestModel, sum.MaxSubmeshes)},
			{"---"},
			{"Textures", cli.FormatNumber(int64(sum.Textures))},
		},
	}))

	formatRows := make([][]string, 0, len(sum.Formats))
	for _, fs := range sum.Formats {
		formatRows = append(formatRows, []string{fs.Format, fs.Kind.String(), cli.FormatNumber(int64(fs.Files)), cli.FormatNumber(int64(fs.Submeshes))})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Format",
		Headers: []string{"Format", "Kind", "Files", "Parts"},
		Rows:    formatRows,
	}))

	var configured [][]string
	for _, m := range model.Modes() {
		asset, ok := appCfg.Assets.ForMode(m)
		if !ok {
			continue
		}
		status := fmt.Sprintf("missing, %d built-in parts", asset.DefaultSubmeshes)
		if info, found := catalog.Find(asset.File); found && len(info.Submeshes) > 0 {
			status = fmt.Sprintf("found, %d parts", len(info.Submeshes))
		}
		configured = append(configured, []string{m.String(), asset.File, status})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Scene Assets",
		Headers: []string{"Mode", "File", "Status"},
		Rows:    configured,
	}))

	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		detail := ""
		switch a.Kind {
		case model.AssetModel:
			detail = fmt.Sprintf("%d parts", len(a.Submeshes))
		case model.AssetTexture:
			detail = fmt.Sprintf("%dx%d", a.Width, a.Height)
		}
		rows = append(rows, []string{a.Name, a.Kind.String(), a.Format, detail})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Catalog",
		Headers: []string{"Name", "Kind", "Format", "Detail"},
		Rows:    rows,
	}))
	return nil
}
