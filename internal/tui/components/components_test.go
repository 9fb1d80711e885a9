package components

import (
	"strings"
	"testing"

	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if len(got) != 3 || got[0] != 4 || got[1] != 3 || got[2] != 3 {
		t.Fatalf("LayoutRow(10, 3) = %v, want [4 3 3]", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(10, 0) should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("Joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("Line %d has no ANSI codes: %q", i, lines[i])
		}
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Errorf("Line %d width = %d, want 44", i, w)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('g'); got != 1 {
		t.Fatalf("TabIdxByKey('g') = %d, want 1", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestTabVisualWidth(t *testing.T) {
	// Inactive tabs replace the key letter with "[k]"; tabs whose key is not
	// in the name append it.
	scene := Tabs[0]
	if got, want := TabVisualWidth(scene, true), len(scene.Name)+2; got != want {
		t.Errorf("active Scene width = %d, want %d", got, want)
	}
	if got, want := TabVisualWidth(scene, false), len(scene.Name)+4; got != want {
		t.Errorf("inactive Scene width = %d, want %d", got, want)
	}
	settings := Tabs[3]
	if got, want := TabVisualWidth(settings, false), len(settings.Name)+5; got != want {
		t.Errorf("inactive Settings width = %d, want %d", got, want)
	}
}

func TestStackedBarChart_Shape(t *testing.T) {
	bars := []Bar{
		{Label: "0", Value: 100, Base: 100},
		{Label: "1", Value: 250, Base: 200},
		{Label: "2", Value: 420, Base: 300},
	}
	out := StackedBarChart(bars, theme.Active.Bill, theme.Active.Coin, 40, 6)
	lines := strings.Split(out, "\n")

	// height rows + axis + labels
	if len(lines) != 8 {
		t.Fatalf("chart lines = %d, want 8:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[6], "└") {
		t.Errorf("axis line = %q", lines[6])
	}
	if !strings.Contains(lines[7], "0") || !strings.Contains(lines[7], "2") {
		t.Errorf("label line = %q", lines[7])
	}
}

func TestStackedBarChart_NarrowFallsBackToSparkline(t *testing.T) {
	out := StackedBarChart([]Bar{{Value: 1}, {Value: 2}}, theme.Active.Bill, theme.Active.Coin, 10, 6)
	if strings.Contains(out, "\n") {
		t.Fatalf("narrow chart should be a single line, got %q", out)
	}
}

func TestRevealMeter(t *testing.T) {
	if RevealMeter(3, 0, 20) != "" {
		t.Fatal("RevealMeter with no parts should be empty")
	}
	if out := RevealMeter(12, 24, 20); !strings.Contains(out, "12/24") {
		t.Fatalf("RevealMeter = %q, want 12/24", out)
	}
}

func TestSliderMarkerPosition(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	defer lipgloss.SetColorProfile(termenv.TrueColor)

	out := Slider("Years", "10", 0.5, 11, true)
	if !strings.HasPrefix(out, "▸ ") {
		t.Fatalf("focused slider should start with marker: %q", out)
	}
	if !strings.Contains(out, "━━━━━●─────") {
		t.Fatalf("slider track = %q", out)
	}
}
