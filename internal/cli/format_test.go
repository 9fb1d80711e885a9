package cli

import (
	"os"
	"strings"
	"testing"
	"unicode"

	"github.com/dset/arsavings/internal/config"
	"github.com/dset/arsavings/internal/layout"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-12345, "-12,345"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatter_English(t *testing.T) {
	f := NewFormatter("en-US", "kr")
	if got := f.Currency(12345); got != "12,345 kr" {
		t.Errorf("Currency(12345) = %q, want %q", got, "12,345 kr")
	}
	if got := NewFormatter("en", "").Currency(1000); got != "1,000" {
		t.Errorf("Currency without symbol = %q, want 1,000", got)
	}
}

func TestFormatter_Swedish(t *testing.T) {
	f := NewFormatter("sv-SE", "kr")
	got := f.Currency(1234567)

	if !strings.HasSuffix(got, " kr") {
		t.Fatalf("Currency = %q, want kr suffix", got)
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, got)
	if digits != "1234567" {
		t.Errorf("digits = %q, want 1234567", digits)
	}
	if strings.Contains(got, ",") {
		t.Errorf("Swedish grouping should not use commas: %q", got)
	}
	if len([]rune(strings.TrimSuffix(got, " kr"))) != len("1234567")+2 {
		t.Errorf("Currency = %q, want two group separators", got)
	}
}

func TestFormatter_BadLocale(t *testing.T) {
	f := NewFormatter("not a locale!", "")
	if got := f.Number(1000); got != "1,000" {
		t.Errorf("Number = %q, want English fallback 1,000", got)
	}
}

func TestFormatLength(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 m"},
		{0.005, "5.0 mm"},
		{0.015375, "1.5 cm"},
		{1.25, "1.25 m"},
	}
	for _, tt := range tests {
		if got := FormatLength(tt.in); got != tt.want {
			t.Errorf("FormatLength(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatYears(t *testing.T) {
	if got := FormatYears(1); got != "1 year" {
		t.Errorf("FormatYears(1) = %q", got)
	}
	if got := FormatYears(10); got != "10 years" {
		t.Errorf("FormatYears(10) = %q", got)
	}
}

func TestRenderPileMap(t *testing.T) {
	g := config.DefaultGeometry()
	got := RenderPileMap(layout.Layout(1_000_000, g), g.MaxPileHeight)

	want := strings.Join([]string{
		"  █ █",
		"  · ▄",
		"  · ·",
		"",
	}, "\n")
	if got != want {
		t.Errorf("RenderPileMap =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderPileMap_CoinOnly(t *testing.T) {
	g := config.DefaultGeometry()
	got := RenderPileMap(layout.Layout(45, g), g.MaxPileHeight)

	if !strings.Contains(got, "●") {
		t.Errorf("RenderPileMap(45) = %q, want coin marker", got)
	}
	if empty := RenderPileMap(layout.Layout(0, g), g.MaxPileHeight); !strings.Contains(empty, "nothing") {
		t.Errorf("RenderPileMap(0) = %q", empty)
	}
}

func TestRenderRevealBar(t *testing.T) {
	got := RenderRevealBar(12, 24, 10)
	if got != "[█████░░░░░] 12/24 parts" {
		t.Errorf("RenderRevealBar = %q", got)
	}
	if RenderRevealBar(1, 0, 10) != "" {
		t.Error("RenderRevealBar with no parts should be empty")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 1, 2, 4}); got != "▁▂▄█" {
		t.Errorf("RenderSparkline = %q", got)
	}
}
