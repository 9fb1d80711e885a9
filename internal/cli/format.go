// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts with locale-aware digit grouping.
type Formatter struct {
	tag    language.Tag
	symbol string
	p      *message.Printer
}

// NewFormatter returns a formatter for a BCP 47 locale such as "sv-SE".
// Unparseable locales fall back to English.
func NewFormatter(locale, symbol string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Formatter{tag: tag, symbol: symbol, p: message.NewPrinter(tag)}
}

// Locale returns the formatter's language tag.
func (f Formatter) Locale() language.Tag { return f.tag }

// Number formats n with the locale's grouping separator.
// e.g., en: 1234567 -> "1,234,567"
func (f Formatter) Number(n int64) string {
	if f.p == nil {
		return FormatNumber(n)
	}
	return f.p.Sprintf("%d", n)
}

// Currency formats n followed by the currency symbol.
// e.g., sv-SE: 12345 -> "12 345 kr"
func (f Formatter) Currency(n int64) string {
	if f.symbol == "" {
		return f.Number(n)
	}
	return f.Number(n) + " " + f.symbol
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatLength formats a length in scene units (meters).
// e.g., 0.015375 -> "1.5 cm", 1.25 -> "1.25 m"
func FormatLength(m float64) string {
	switch {
	case m == 0:
		return "0 m"
	case m < 0.01:
		return fmt.Sprintf("%.1f mm", m*1000)
	case m < 1:
		return fmt.Sprintf("%.1f cm", m*100)
	default:
		return fmt.Sprintf("%.2f m", m)
	}
}

// FormatYears formats a duration in whole years.
func FormatYears(y int64) string {
	if y == 1 {
		return "1 year"
	}
	return fmt.Sprintf("%d years", y)
}
