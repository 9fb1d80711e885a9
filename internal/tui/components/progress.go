package components

import (
	"fmt"
	"strings"

	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block progress bar followed by a percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := min(int(pct*float64(width)), width)

	barColor := t.Cyan
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// RevealMeter renders how many parts of an asset are visible.
func RevealMeter(revealed, total, width int) string {
	t := theme.Active
	if total <= 0 {
		return ""
	}
	pct := clamp01(float64(revealed) / float64(total))

	bar := progress.New(
		progress.WithSolidFill(string(t.Coin)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Hidden)

	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) +
		spaceStyle.Render(" ") +
		countStyle.Render(fmt.Sprintf("%d/%d", revealed, total)) +
		mutedStyle.Render(" parts")
}

// Slider renders a labeled value track. The marker sits at value/max.
func Slider(label, value string, pct float64, width int, focused bool) string {
	t := theme.Active
	pct = clamp01(pct)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	trackStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	fillStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	marker := lipgloss.NewStyle().Background(t.Surface).Render("  ")
	if focused {
		labelStyle = labelStyle.Foreground(t.AccentBright).Bold(true)
		fillStyle = fillStyle.Foreground(t.AccentBright)
		marker = lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Render("▸ ")
	}

	track := max(width, 4)
	pos := min(int(pct*float64(track-1)+0.5), track-1)

	return marker +
		labelStyle.Render(fmt.Sprintf("%-16s", label)) +
		fillStyle.Render(strings.Repeat("━", pos)) +
		fillStyle.Render("●") +
		trackStyle.Render(strings.Repeat("─", track-pos-1)) +
		lipgloss.NewStyle().Background(t.Surface).Render("  ") +
		valueStyle.Render(value)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
