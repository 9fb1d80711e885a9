package tui

import (
	"fmt"
	"strings"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/layout"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/scene"
	"github.com/dset/arsavings/internal/tui/components"
	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// sliderDef describes one input slider. Steps match the resolution the
// inputs are edited at on a phone.
type sliderDef struct {
	label string
	step  int64
	max   int64
	get   func(model.Parameters) int64
	set   func(*model.Parameters, int64)
}

var sliders = []sliderDef{
	{
		label: "Monthly savings",
		step:  100,
		max:   50_000,
		get:   func(p model.Parameters) int64 { return p.MonthlySavings },
		set:   func(p *model.Parameters, v int64) { p.MonthlySavings = v },
	},
	{
		label: "Start amount",
		step:  10_000,
		max:   5_000_000,
		get:   func(p model.Parameters) int64 { return p.StartAmount },
		set:   func(p *model.Parameters, v int64) { p.StartAmount = v },
	},
	{
		label: "Duration",
		step:  1,
		max:   50,
		get:   func(p model.Parameters) int64 { return p.DurationYears },
		set:   func(p *model.Parameters, v int64) { p.DurationYears = v },
	},
}

// tapPoint is where a keyboard "tap" places the anchor: half a meter in
// front of the viewer on the floor plane.
var tapPoint = r3.Vec{X: 0, Y: 0, Z: -0.5}

// updateSceneKey applies a scene-tab key and reports whether it was handled.
func (a App) updateSceneKey(key string) (App, bool) {
	switch key {
	case "j", "down":
		a.focus = min(a.focus+1, len(sliders)-1)
	case "k", "up":
		a.focus = max(a.focus-1, 0)
	case "l", "right", "+", "=":
		a.adjustFocused(1)
	case "h", "left", "-":
		a.adjustFocused(-1)
	case "L":
		a.adjustFocused(10)
	case "H":
		a.adjustFocused(-10)
	case "1", "2", "3":
		_ = a.store.SetMode(model.Modes()[key[0]-'1'])
	case "m":
		modes := model.Modes()
		_ = a.store.SetMode(modes[(int(a.store.CurrentMode())+1)%len(modes)])
	case " ", "enter", "t":
		a.store.Tap(model.NewAnchorTransform(tapPoint))
	default:
		return a, false
	}
	return a, true
}

// adjustFocused moves the focused slider by steps, clamped to its range.
func (a *App) adjustFocused(steps int64) {
	def := sliders[a.focus]
	p := a.store.Snapshot()
	v := def.get(p) + steps*def.step
	v = min(max(v, 0), def.max)
	def.set(&p, v)
	if err := a.store.Apply(p); err != nil {
		a.log.Warn("rejected slider value", zap.Error(err))
	}
}

func (a App) sliderValue(i int, v int64) string {
	if sliders[i].label == "Duration" {
		return cli.FormatYears(v)
	}
	return a.format.Currency(v)
}

func (a App) renderSceneTab(cw int) string {
	t := theme.Active
	p := a.store.Snapshot()
	mode := a.store.CurrentMode()

	total := a.projector.Project(p.MonthlySavings, p.StartAmount, p.DurationYears)
	if a.snap.hasTotal {
		total = a.snap.total
	}

	var b strings.Builder

	contributed := p.StartAmount + 12*p.MonthlySavings*p.DurationYears
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total savings", Value: a.format.Currency(total), Note: "after " + cli.FormatYears(p.DurationYears)},
		{Label: "Contributed", Value: a.format.Currency(contributed)},
		{Label: "Growth", Value: a.format.Currency(total - contributed), Note: cli.FormatPercent(a.projector.Rate) + " a year"},
		{Label: "Scene", Value: stateLabel(a.snap.state), Note: fmt.Sprintf("%d nodes", nodeCount(a.snap.root))},
	}, cw))
	b.WriteString("\n")

	// Sliders and mode switch
	inner := components.CardInnerWidth(cw)
	trackW := max(inner-2-16-2-16, 10)
	var sb strings.Builder
	for i, def := range sliders {
		v := def.get(p)
		pct := float64(v) / float64(def.max)
		sb.WriteString(components.Slider(def.label, a.sliderValue(i, v), pct, trackW, i == a.focus))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(renderModePills(mode))
	b.WriteString(components.FocusedCard("Inputs", sb.String(), cw))
	b.WriteString("\n")

	if mode.IsAsset() {
		b.WriteString(a.renderReveal(mode, cw))
	} else {
		b.WriteString(a.renderPiles(total, cw))
	}

	if a.snap.lastFailure != "" {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Background)
		b.WriteString("\n")
		b.WriteString(warn.Render(fmt.Sprintf(" %d resource load failure(s), last: %s", a.snap.failures, a.snap.lastFailure)))
	}
	return b.String()
}

func renderModePills(current model.Mode) string {
	t := theme.Active
	active := lipgloss.NewStyle().Foreground(t.Background).Background(t.Accent).Bold(true).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.SurfaceBright).Padding(0, 1)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	var parts []string
	for i, m := range model.Modes() {
		label := fmt.Sprintf("%d %s", i+1, titleCase(m.String()))
		if m == current {
			parts = append(parts, active.Render(label))
		} else {
			parts = append(parts, inactive.Render(label))
		}
	}
	return strings.Join(parts, space)
}

// renderPiles draws the cash layout seen from above.
func (a App) renderPiles(total int64, cw int) string {
	g := a.cfg.Geometry
	res := layout.Layout(total, g)

	var body strings.Builder
	body.WriteString(cli.RenderPileMap(res, g.MaxPileHeight))
	fmt.Fprintf(&body, "\n%d piles · %s in bills · %s in coins · tallest %s",
		len(res.Piles),
		a.format.Currency(res.Major),
		a.format.Currency(res.Minor),
		cli.FormatLength(min(res.TotalHeight, g.MaxPileHeight)),
	)
	if res.Coin.Height > 0 {
		fmt.Fprintf(&body, " · coin stack %s", cli.FormatLength(res.Coin.Height))
	}
	return components.ContentCard("Top view", body.String(), cw)
}

// renderReveal reports the revealed parts of the placed model.
func (a App) renderReveal(mode model.Mode, cw int) string {
	asset, _ := a.cfg.Assets.ForMode(mode)
	title := fmt.Sprintf("%s · price %s", titleCase(mode.String()), a.format.Currency(int64(asset.Price)))

	inst, ok := modelInstance(a.snap.root)
	if !ok {
		return components.ContentCard(title, "Press space to place the scene and reveal the model.", cw)
	}
	meter := components.RevealMeter(inst.Revealed, len(inst.Model.Submeshes), components.CardInnerWidth(cw)-16)
	return components.ContentCard(title, meter+"\n"+inst.Model.Source, cw)
}

// modelInstance finds the asset model in a published scene.
func modelInstance(root *scene.Node) (scene.ModelInstance, bool) {
	if root == nil {
		return scene.ModelInstance{}, false
	}
	n := root.Find("model")
	if n == nil {
		return scene.ModelInstance{}, false
	}
	inst, ok := n.Renderable.(scene.ModelInstance)
	return inst, ok && inst.Model != nil
}

func nodeCount(root *scene.Node) int {
	if root == nil {
		return 0
	}
	return root.Count()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
