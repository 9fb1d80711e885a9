package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/tui/components"
	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldLocale
	settingsFieldCurrency
	settingsFieldRate
	settingsFieldMode
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldLocale:
		ti.Placeholder = "sv-SE"
		ti.SetValue(cfg.Display.Locale)
	case settingsFieldCurrency:
		ti.Placeholder = "kr"
		ti.SetValue(cfg.Display.CurrencySymbol)
	case settingsFieldRate:
		ti.Placeholder = "8.46 (percent a year)"
		ti.SetValue(formatRatePercent(cfg.Finance.AnnualRate))
	case settingsFieldMode:
		ti.Placeholder = "cash, car or home"
		ti.SetValue(cfg.General.DefaultMode)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited field, persists the config and applies
// it to the running session. Invalid input leaves the config untouched.
func (a *App) settingsSave() {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !slices.Contains(theme.Names(), val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
	case settingsFieldLocale:
		if val == "" {
			a.settings.saveErr = errors.New("locale is required")
			return
		}
		cfg.Display.Locale = val
	case settingsFieldCurrency:
		cfg.Display.CurrencySymbol = val
	case settingsFieldRate:
		rate, err := parseRatePercent(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.Finance.AnnualRate = rate
	case settingsFieldMode:
		m, err := model.ParseMode(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		cfg.General.DefaultMode = m.String()
	}

	if err := cfg.Validate(); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = config.Save(cfg)
	a.reconfigure(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.Bill).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct {
		label string
		value string
	}{
		{"Theme", cfg.Appearance.Theme},
		{"Locale", cfg.Display.Locale},
		{"Currency", cfg.Display.CurrencySymbol},
		{"Annual rate", formatRatePercent(cfg.Finance.AnnualRate) + "%"},
		{"Default mode", cfg.General.DefaultMode},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(okStyle.Render("Saved!"))
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	g := cfg.Geometry
	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.Path()) + "\n")
	info.WriteString(labelStyle.Render("Bill:          ") + valueStyle.Render(fmt.Sprintf("%s per bundle, %.3f m thick", a.format.Currency(g.BundleValue), g.HeightPerBundle)) + "\n")
	info.WriteString(labelStyle.Render("Pile limit:    ") + valueStyle.Render(fmt.Sprintf("%.2f m", g.MaxPileHeight)) + "\n")
	info.WriteString(labelStyle.Render("Car price:     ") + valueStyle.Render(a.format.Currency(int64(cfg.Assets.Car.Price))) + "\n")
	info.WriteString(labelStyle.Render("Home price:    ") + valueStyle.Render(a.format.Currency(int64(cfg.Assets.Home.Price))))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Scene tuning", info.String(), cw))
	return b.String()
}
