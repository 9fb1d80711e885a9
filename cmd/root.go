package cmd

import (
	"fmt"
	"os"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/finance"
	"github.com/dset/arsavings/internal/logging"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/pipeline"
	"github.com/dset/arsavings/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagAssetsDir string
	flagNoCache   bool
	flagQuiet     bool
	flagVerbose   bool
	flagLogFile   string

	flagMonthly int64
	flagStart   int64
	flagYears   int64
	flagMode    string
)

// Loaded once per invocation by the root pre-run hook.
var (
	appCfg config.Config
	appLog = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "arsavings",
	Short: "See your savings as a pile of cash, a car or a home",
	Long: "Project savings with compound growth and compose the scene an AR viewer\n" +
		"places in the room: stacked bills, or a model revealed part by part.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { _ = appLog.Sync() },
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagAssetsDir, "assets-dir", "d", "", "Directory with .gltf/.glb models and textures")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse every asset")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	pf.Int64VarP(&flagMonthly, "monthly", "m", 0, "Monthly savings")
	pf.Int64VarP(&flagStart, "start", "s", 0, "Start amount")
	pf.Int64VarP(&flagYears, "years", "y", 10, "Duration in years")
	pf.StringVar(&flagMode, "mode", "", "Visualization mode: cash, car or home")
}

// setup loads config and the logger, then fills unset flags from config.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Config unreadable, using defaults: %s\n", err)
		cfg = config.DefaultConfig()
	}
	appCfg = cfg

	// Quiet by default; commands print their own output.
	if flagVerbose || flagLogFile != "" {
		log, err := logging.New(logging.Options{Verbose: flagVerbose, File: flagLogFile})
		if err != nil {
			return err
		}
		appLog = log
	}

	if !cmd.Flags().Changed("assets-dir") && flagAssetsDir == "" {
		flagAssetsDir = cfg.General.AssetsDir
	}
	if flagMode == "" {
		flagMode = cfg.General.DefaultMode
	}
	return nil
}

// inputParams returns the savings inputs from flags.
func inputParams() (model.Parameters, error) {
	p := model.Parameters{
		MonthlySavings: flagMonthly,
		StartAmount:    flagStart,
		DurationYears:  flagYears,
	}
	if p.MonthlySavings < 0 || p.StartAmount < 0 || p.DurationYears < 0 {
		return p, fmt.Errorf("amounts and duration must not be negative")
	}
	return p, nil
}

func inputMode() (model.Mode, error) {
	if flagMode == "" {
		return model.ModeCash, nil
	}
	return model.ParseMode(flagMode)
}

func projector() finance.Projector {
	return finance.New(appCfg.Finance.AnnualRate)
}

func formatter() cli.Formatter {
	return cli.NewFormatter(appCfg.Display.Locale, appCfg.Display.CurrencySymbol)
}

// loadCatalog scans the assets directory. Uses the SQLite cache when
// available for fast subsequent runs. No directory means an empty catalog
// and built-in asset fallbacks.
func loadCatalog() (*pipeline.Catalog, error) {
	if flagAssetsDir == "" {
		return pipeline.NewCatalog(nil), nil
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning assets...\n")
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%20 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			appLog.Warn("asset cache unavailable", zap.Error(err))
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(flagAssetsDir, cache, progressFn)
			if err == nil {
				if !flagQuiet && cr.TotalFiles > 0 {
					fmt.Fprintf(os.Stderr, "\r  %s cached + %d reparsed    \n",
						cli.FormatNumber(int64(cr.CacheHits)), cr.Reparsed)
				}
				logFileErrors(cr.Errors)
				return pipeline.NewCatalog(cr.Assets), nil
			}
			appLog.Warn("cached load failed, doing full parse", zap.Error(err))
		}
	}

	result, err := pipeline.Load(flagAssetsDir, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s asset files    \n", cli.FormatNumber(int64(result.ParsedFiles)))
	}
	logFileErrors(result.Errors)
	return pipeline.NewCatalog(result.Assets), nil
}

func logFileErrors(errs []error) {
	for _, err := range errs {
		appLog.Warn("skipped asset file", zap.Error(err))
	}
}
