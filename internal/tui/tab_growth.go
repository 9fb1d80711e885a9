package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/finance"
	"github.com/dset/arsavings/internal/tui/components"
	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGrowthTab(cw int) string {
	t := theme.Active
	p := a.store.Snapshot()
	points := a.projector.Schedule(p.MonthlySavings, p.StartAmount, p.DurationYears)
	last := points[len(points)-1]

	growth := last.Total - last.Contributed
	share := 0.0
	if last.Total > 0 {
		share = float64(growth) / float64(last.Total)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Final total", Value: a.format.Currency(last.Total), Note: cli.FormatYears(last.Year)},
		{Label: "Contributed", Value: a.format.Currency(last.Contributed)},
		{Label: "Interest earned", Value: a.format.Currency(growth), Note: cli.FormatPercent(share) + " of total"},
	}, cw))
	b.WriteString("\n")

	bars := make([]components.Bar, len(points))
	for i, pt := range points {
		bars[i] = components.Bar{
			Label: strconv.FormatInt(pt.Year, 10),
			Value: float64(pt.Total),
			Base:  float64(min(pt.Contributed, pt.Total)),
		}
	}
	legend := lipgloss.NewStyle().Foreground(t.Bill).Background(t.Surface).Render("█ contributed  ") +
		lipgloss.NewStyle().Foreground(t.Coin).Background(t.Surface).Render("█ interest")
	chart := components.StackedBarChart(bars, t.Bill, t.Coin, components.CardInnerWidth(cw), 12)
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Growth at %s a year", cli.FormatPercent(a.projector.Rate)),
		chart+"\n"+legend,
		cw,
	))
	b.WriteString("\n")

	// First and last six years when the table would not fit.
	rows := points
	if len(rows) > 12 {
		rows = append(append([]finance.YearPoint{}, rows[:6]...), rows[len(rows)-6:]...)
	}
	var tb strings.Builder
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	tb.WriteString(muted.Render(fmt.Sprintf("%-6s %18s %18s %18s", "Year", "Total", "Contributed", "Interest")))
	for _, pt := range rows {
		tb.WriteString("\n")
		tb.WriteString(value.Render(fmt.Sprintf("%-6d %18s %18s %18s",
			pt.Year,
			a.format.Currency(pt.Total),
			a.format.Currency(pt.Contributed),
			a.format.Currency(pt.Total-pt.Contributed),
		)))
	}
	b.WriteString(components.ContentCard("By year", tb.String(), cw))

	return b.String()
}
