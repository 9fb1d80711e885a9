// Package cmd implements the arsavings CLI commands.
package cmd

import (
	"fmt"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(_ *cobra.Command, _ []string) error {
		if config.Exists() {
			return fmt.Errorf("%s already exists", config.Path())
		}
		if err := config.Save(config.DefaultConfig()); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("  Wrote %s\n", config.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problem: %s\n", err)
	}
	fmt.Println()

	f := cli.NewFormatter(cfg.Display.Locale, cfg.Display.CurrencySymbol)

	fmt.Println("  [General]")
	dir := cfg.General.AssetsDir
	if dir == "" {
		dir = "not set (built-in parts)"
	}
	fmt.Printf("    Assets directory: %s\n", dir)
	fmt.Printf("    Default mode:     %s\n", cfg.General.DefaultMode)
	fmt.Println()

	fmt.Println("  [Finance]")
	fmt.Printf("    Annual rate: %s\n", cli.FormatPercent(cfg.Finance.AnnualRate))
	fmt.Println()

	g := cfg.Geometry
	fmt.Println("  [Layout]")
	fmt.Printf("    Bundle:          %s, %s high\n", f.Currency(g.BundleValue), cli.FormatLength(g.HeightPerBundle))
	fmt.Printf("    Max pile height: %s\n", cli.FormatLength(g.MaxPileHeight))
	fmt.Printf("    Bill:            %s x %s\n", cli.FormatLength(g.BillWidth), cli.FormatLength(g.BillHeight))
	fmt.Printf("    Coins below:     %s\n", f.Currency(g.MinorUnit))
	fmt.Println()

	fmt.Println("  [Assets]")
	for _, a := range []struct {
		name  string
		asset config.Asset
	}{
		{"car", cfg.Assets.Car},
		{"home", cfg.Assets.Home},
	} {
		fmt.Printf("    %-5s %s, %s, seed %d\n", a.name+":", a.asset.File, f.Currency(int64(a.asset.Price)), a.asset.Seed)
	}
	fmt.Println()

	fmt.Println("  [Display]")
	fmt.Printf("    Locale:   %s\n", cfg.Display.Locale)
	fmt.Printf("    Currency: %s\n", cfg.Display.CurrencySymbol)
	fmt.Printf("    Theme:    %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `arsavings setup` to reconfigure.")
	return nil
}
