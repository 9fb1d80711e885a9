package components

import (
	"strings"

	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the composer.
type Status struct {
	State   string
	Mode    string
	Failure string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" ") + keyStyle.Render("[?]") + base.Render("help  ") +
		keyStyle.Render("[space]") + base.Render("place  ") +
		keyStyle.Render("[q]") + base.Render("uit")

	var right []string
	if st.Failure != "" {
		right = append(right, warnStyle.Render("⚠ "+st.Failure))
	}
	if st.Mode != "" {
		right = append(right, base.Render(st.Mode))
	}
	if st.State != "" {
		right = append(right, keyStyle.Render(st.State))
	}
	r := strings.Join(right, base.Render(" · ")) + base.Render(" ")

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(r), 0)
	return left + base.Render(strings.Repeat(" ", padding)) + r
}
