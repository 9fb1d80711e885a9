package cmd

import (
	"fmt"

	"github.com/dset/arsavings/internal/tui"
	"github.com/dset/arsavings/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive savings explorer",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	p, err := inputParams()
	if err != nil {
		return err
	}
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	cfg := appCfg
	cfg.General.DefaultMode = flagMode

	app := tui.NewApp(tui.Options{
		Config:    cfg,
		AssetsDir: flagAssetsDir,
		NoCache:   flagNoCache,
		Params:    p,
		Logger:    appLog.Named("tui"),
	})
	prog := tea.NewProgram(app, tea.WithAltScreen())

	final, err := prog.Run()
	if a, ok := final.(tui.App); ok {
		a.Close()
	} else {
		app.Close()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
