package cmd

import (
	"fmt"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	if flagAssetsDir != "" {
		cfg.General.AssetsDir = flagAssetsDir
	}

	assetCount := 0
	if flagAssetsDir != "" {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		assetCount = len(catalog.Assets())
	}

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(assetCount, flagAssetsDir, &vals).Run(); err != nil {
		return err
	}
	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `arsavings setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
