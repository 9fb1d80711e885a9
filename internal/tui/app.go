// Package tui provides the interactive Bubble Tea front end for arsavings.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/composer"
	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/finance"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/params"
	"github.com/dset/arsavings/internal/pipeline"
	"github.com/dset/arsavings/internal/store"
	"github.com/dset/arsavings/internal/tui/components"
	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// CatalogLoadedMsg is sent when the asset pipeline finishes.
type CatalogLoadedMsg struct {
	Catalog  *pipeline.Catalog
	Files    int
	Reparsed int
	Errors   int
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports asset parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Options configures the app.
type Options struct {
	Config    config.Config
	AssetsDir string
	NoCache   bool
	// Params seeds the sliders.
	Params model.Parameters
	Logger *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	cfg       config.Config
	assetsDir string
	noCache   bool
	log       *zap.Logger
	format    cli.Formatter
	projector finance.Projector

	store   *params.Store
	session *session

	// Catalog
	catalog  *pipeline.Catalog
	loaded   bool
	loadTime time.Duration
	loadErr  error
	files    int
	reparsed int
	badFiles int

	// Latest composer output
	snap snapshot

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	focus     int // slider index on the scene tab
	assetRow  int // cursor on the assets tab

	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	st := params.NewStore()
	_ = st.Apply(opts.Params)
	if m, err := model.ParseMode(opts.Config.General.DefaultMode); err == nil {
		_ = st.SetMode(m)
	}

	return App{
		cfg:       opts.Config,
		assetsDir: opts.AssetsDir,
		noCache:   opts.NoCache,
		log:       log,
		format:    cli.NewFormatter(opts.Config.Display.Locale, opts.Config.Display.CurrencySymbol),
		projector: finance.New(opts.Config.Finance.AnnualRate),
		store:     st,
		needSetup: !config.Exists(),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCatalogCmd(a.assetsDir, a.noCache, a.loadSub),
		a.spinner.Tick,
	)
}

// Close stops the background composer. Call it after the program exits.
func (a App) Close() {
	if a.session != nil {
		a.session.close()
	}
}

// labelFormatter is what the composer writes on the scene label.
func (a App) labelFormatter() func(int64) string {
	return a.format.Currency
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabScene {
				a.adjustFocused(1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabScene {
				a.adjustFocused(-1)
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case CatalogLoadedMsg:
		a.loaded = true
		a.catalog = msg.Catalog
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		a.files = msg.Files
		a.reparsed = msg.Reparsed
		a.badFiles = msg.Errors

		a.session = newSession(a.store, a.catalog, a.cfg.Assets, a.log.Named("composer"))
		a.session.start(a.cfg, a.labelFormatter())
		cmds := []tea.Cmd{waitForComposer(a.session)}

		if a.needSetup {
			a.setupVals = SetupValuesFrom(a.cfg)
			a.setupForm = NewSetupForm(len(a.catalog.Assets()), a.assetsDir, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			cmds = append(cmds, a.setupForm.Init())
		}
		return a, tea.Batch(cmds...)

	case ComposerMsg:
		a.snap = a.session.snapshot()
		return a, waitForComposer(a.session)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Settings tab has its own keybindings (text input)
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabScene:
		if next, handled := a.updateSceneKey(key); handled {
			return next, nil
		}
	case tabAssets:
		switch key {
		case "j", "down":
			if a.catalog != nil && a.assetRow < len(a.catalog.Assets())-1 {
				a.assetRow++
			}
			return a, nil
		case "k", "up":
			if a.assetRow > 0 {
				a.assetRow--
			}
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.applySetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applySetup saves the wizard's answers and applies them to this session.
func (a *App) applySetup() {
	cfg := loadConfigOrDefault()
	if err := a.setupVals.Apply(&cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saveErr = config.Save(cfg)
	a.reconfigure(cfg)
}

// reconfigure applies a changed config to the running session.
func (a *App) reconfigure(cfg config.Config) {
	rateChanged := cfg.Finance.AnnualRate != a.cfg.Finance.AnnualRate
	displayChanged := cfg.Display != a.cfg.Display

	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	a.format = cli.NewFormatter(cfg.Display.Locale, cfg.Display.CurrencySymbol)
	a.projector = finance.New(cfg.Finance.AnnualRate)

	if a.session != nil && (rateChanged || displayChanged) {
		a.session.start(cfg, a.labelFormatter())
	}
}

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  arsavings needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ arsavings"))
	b.WriteString(subtitleStyle.Render(" · see your savings grow"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing assets\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Scanning assets..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Scene", []struct{ key, desc string }{
			{"j k", "Select slider"},
			{"h l", "Adjust by one step"},
			{"H L", "Adjust by ten steps"},
			{"1 2 3", "Cash / Car / Home"},
			{"m", "Next mode"},
			{"space", "Place the scene"},
		}},
		{"Navigation", []struct{ key, desc string }{
			{"s g a x", "Jump to tab"},
			{"tab", "Next tab"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, components.Status{
		State:   a.snap.state.String(),
		Mode:    a.store.CurrentMode().String(),
		Failure: a.snap.lastFailure,
	})

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabScene:
		content = a.renderSceneTab(cw)
	case tabGrowth:
		content = a.renderGrowthTab(cw)
	case tabAssets:
		content = a.renderAssetsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// Tab indices, matching components.Tabs.
const (
	tabScene = iota
	tabGrowth
	tabAssets
	tabSettings
)

// ─── Loading ────────────────────────────────────────────────────

// loadCatalogCmd starts the asset pipeline in a background goroutine. It
// streams ProgressMsg updates and a final CatalogLoadedMsg through sub.
func loadCatalogCmd(dir string, noCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update
			// catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			if dir == "" {
				sub <- CatalogLoadedMsg{Catalog: pipeline.NewCatalog(nil), LoadTime: time.Since(start)}
				return
			}

			if !noCache {
				if cache, err := store.Open(pipeline.CachePath()); err == nil {
					cr, loadErr := pipeline.LoadWithCache(dir, cache, progressFn)
					_ = cache.Close()
					if loadErr == nil {
						sub <- CatalogLoadedMsg{
							Catalog:  pipeline.NewCatalog(cr.Assets),
							Files:    cr.TotalFiles,
							Reparsed: cr.Reparsed,
							Errors:   cr.FileErrors,
							LoadTime: time.Since(start),
						}
						return
					}
				}
			}

			result, err := pipeline.Load(dir, progressFn)
			if err != nil {
				sub <- CatalogLoadedMsg{Catalog: pipeline.NewCatalog(nil), LoadTime: time.Since(start), Err: err}
				return
			}
			sub <- CatalogLoadedMsg{
				Catalog:  pipeline.NewCatalog(result.Assets),
				Files:    result.TotalFiles,
				Reparsed: result.ParsedFiles,
				Errors:   result.FileErrors,
				LoadTime: time.Since(start),
			}
		}()

		// Block until the first message (either ProgressMsg or CatalogLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// stateLabel is a human-readable composer state.
func stateLabel(s composer.State) string {
	switch s {
	case composer.Idle:
		return "waiting for placement"
	case composer.Composing:
		return "loading resources"
	default:
		return "placed"
	}
}
