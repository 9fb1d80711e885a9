package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Bar is one column of a stacked bar chart. Base is drawn in the base
// color up to its height; the remainder up to Value in the top color.
type Bar struct {
	Label string
	Value float64
	Base  float64
}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// StackedBarChart renders bars with a y-axis, bottom-aligned, using
// eighth-block glyphs for partial rows.
func StackedBarChart(bars []Bar, base, top lipgloss.Color, width, height int) string {
	if len(bars) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		values := make([]float64, len(bars))
		for i, b := range bars {
			values[i] = b.Value
		}
		return Sparkline(values, top)
	}

	t := theme.Active

	maxVal := 0.0
	for _, b := range bars {
		maxVal = max(maxVal, b.Value)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := chartTickStep(maxVal)
	ceiling := math.Ceil(maxVal/step) * step

	yLabelW := max(len(formatChartLabel(ceiling))+1, 4)
	chartW := max(width-yLabelW-1, 5)

	// Sample down to what fits at one column per bar plus a gap.
	n := len(bars)
	if maxN := (chartW + 1) / 2; n > maxN {
		sampled := make([]Bar, maxN)
		for i := range sampled {
			sampled[i] = bars[i*(n-1)/(maxN-1)]
		}
		bars, n = sampled, maxN
	}
	barW := min(max((chartW-(n-1))/n, 1), 6)

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	baseStyle := lipgloss.NewStyle().Foreground(base).Background(t.Surface)
	topStyle := lipgloss.NewStyle().Foreground(top).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(height)
		rowBottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = formatChartLabel(ceiling)
		} else if row == (height+1)/2 {
			label = formatChartLabel(ceiling * float64(row) / float64(height))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, bar := range bars {
			if i > 0 {
				b.WriteString(space.Render(" "))
			}
			style := topStyle
			if bar.Base >= rowTop || (bar.Base > rowBottom && bar.Value <= rowTop) {
				style = baseStyle
			}
			switch {
			case bar.Value >= rowTop:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case bar.Value > rowBottom:
				idx := int((bar.Value - rowBottom) / (rowTop - rowBottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(space.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + n - 1
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	// First and last labels only; the axis is too narrow for more.
	first, last := bars[0].Label, bars[n-1].Label
	if first != "" || last != "" {
		gap := axisLen - len(first) - len(last)
		if gap < 1 {
			last = ""
			gap = axisLen - len(first)
		}
		b.WriteString("\n")
		b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW+1) + first + strings.Repeat(" ", max(gap, 0)) + last))
	}

	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e9:
		return trimLabel(v/1e9) + "B"
	case v >= 1e6:
		return trimLabel(v/1e6) + "M"
	case v >= 1e3:
		return trimLabel(v/1e3) + "k"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func trimLabel(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
