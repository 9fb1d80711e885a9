// Package model defines the shared domain types for the savings visualization.
package model

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknownMode is returned when a mode name does not match any Mode.
var ErrUnknownMode = errors.New("unknown visualization mode")

// Mode selects which geometry governs the subtree attached to an anchor.
type Mode int

const (
	ModeCash Mode = iota
	ModeCar
	ModeHome
)

var modeNames = [...]string{"cash", "car", "home"}

// Modes returns every visualization mode in display order.
func Modes() []Mode {
	return []Mode{ModeCash, ModeCar, ModeHome}
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a case-insensitive mode name.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return ModeCash, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(modeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// IsAsset reports whether the mode reveals a priced asset instead of cash.
func (m Mode) IsAsset() bool {
	return m == ModeCar || m == ModeHome
}

// Parameters holds the user-adjustable financial inputs.
// All amounts are whole currency units.
type Parameters struct {
	MonthlySavings int64 `json:"monthly_savings"`
	StartAmount    int64 `json:"start_amount"`
	DurationYears  int64 `json:"duration_years"`
}

// AnchorTransform is the world placement produced by a tracking
// collaborator when the user taps a detected surface.
type AnchorTransform struct {
	Position r3.Vec
	Rotation r3.Rotation
}

// NewAnchorTransform returns an unrotated placement at pos.
func NewAnchorTransform(pos r3.Vec) AnchorTransform {
	return AnchorTransform{
		Position: pos,
		Rotation: r3.NewRotation(0, r3.Vec{Y: 1}),
	}
}
