package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form as the text the form
// edits. Apply converts them onto a config.
type SetupValues struct {
	Theme    string
	Locale   string
	Currency string
	Rate     string // percent, e.g. "8.46"
	Mode     string
}

var setupLocales = []string{"sv-SE", "en-US", "en-GB", "de-DE", "fr-FR", "nb-NO", "da-DK", "fi-FI"}

// SetupValuesFrom returns the form answers matching cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Theme:    cfg.Appearance.Theme,
		Locale:   cfg.Display.Locale,
		Currency: cfg.Display.CurrencySymbol,
		Rate:     formatRatePercent(cfg.Finance.AnnualRate),
		Mode:     cfg.General.DefaultMode,
	}
}

// Apply writes the answers onto cfg and validates the result.
func (v SetupValues) Apply(cfg *config.Config) error {
	rate, err := parseRatePercent(v.Rate)
	if err != nil {
		return err
	}
	if _, err := model.ParseMode(v.Mode); err != nil {
		return err
	}

	next := *cfg
	next.Appearance.Theme = v.Theme
	next.Display.Locale = strings.TrimSpace(v.Locale)
	next.Display.CurrencySymbol = strings.TrimSpace(v.Currency)
	next.Finance.AnnualRate = rate
	next.General.DefaultMode = v.Mode
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// NewSetupForm builds the first-run form. assetCount and dir describe what
// the asset scan found.
func NewSetupForm(assetCount int, dir string, v *SetupValues) *huh.Form {
	intro := "Placing savings in the room needs nothing more than this."
	if dir != "" {
		intro = fmt.Sprintf("Found %d asset files in %s.", assetCount, dir)
	}

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}
	modes := make([]huh.Option[string], 0, len(model.Modes()))
	for _, m := range model.Modes() {
		modes = append(modes, huh.NewOption(titleCase(m.String()), m.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to arsavings").
				Description(intro+"\nRun `arsavings setup` anytime to change these."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Number format").
				Options(huh.NewOptions(setupLocales...)...).
				Value(&v.Locale),
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("currency symbol is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Annual growth rate (%)").
				Description("Used for the projection, compounded yearly.").
				Value(&v.Rate).
				Validate(func(s string) error {
					_, err := parseRatePercent(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Start in mode").
				Options(modes...).
				Value(&v.Mode),
		),
	).WithTheme(huh.ThemeBase16())
}

func parseRatePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	s = strings.ReplaceAll(s, ",", ".")
	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("rate %q is not a number", s)
	}
	if pct < 0 {
		return 0, errors.New("rate cannot be negative")
	}
	return pct / 100, nil
}

func formatRatePercent(rate float64) string {
	return strconv.FormatFloat(math.Round(rate*1e8)/1e6, 'f', -1, 64)
}
