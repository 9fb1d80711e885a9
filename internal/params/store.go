// Package params holds the latest value of every user input that drives the
// scene: the three amounts, the visualization mode and the placement.
package params

import (
	"errors"
	"fmt"

	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/reactive"
)

// ErrNegativeInput is returned when an amount or duration update is negative.
// The update is refused and the previous value kept.
var ErrNegativeInput = errors.New("negative input")

// Store is the set of input cells. Amount cells start at zero and the mode
// at cash; the placement cell is empty until the first tap.
type Store struct {
	MonthlySavings *reactive.Cell[int64]
	StartAmount    *reactive.Cell[int64]
	DurationYears  *reactive.Cell[int64]
	Mode           *reactive.Cell[model.Mode]
	Placement      *reactive.Cell[model.AnchorTransform]
}

// NewStore returns a store with default values.
func NewStore() *Store {
	return &Store{
		MonthlySavings: reactive.NewCell[int64](0),
		StartAmount:    reactive.NewCell[int64](0),
		DurationYears:  reactive.NewCell[int64](0),
		Mode:           reactive.NewCell(model.ModeCash),
		Placement:      reactive.NewEmptyCell[model.AnchorTransform](),
	}
}

// SetMonthlySavings handles a monthly contribution change.
func (s *Store) SetMonthlySavings(amount int64) error {
	return setNonNegative(s.MonthlySavings, "monthly savings", amount)
}

// SetStartAmount handles a starting capital change.
func (s *Store) SetStartAmount(amount int64) error {
	return setNonNegative(s.StartAmount, "start amount", amount)
}

// SetDurationYears handles a duration change.
func (s *Store) SetDurationYears(years int64) error {
	return setNonNegative(s.DurationYears, "duration", years)
}

// SetMode handles a visualization mode change.
func (s *Store) SetMode(m model.Mode) error {
	if _, err := m.MarshalText(); err != nil {
		return err
	}
	s.Mode.Set(m)
	return nil
}

// Tap records a new placement anchor.
func (s *Store) Tap(t model.AnchorTransform) {
	s.Placement.Set(t)
}

// Apply sets every amount in p, refusing the whole update if any is negative.
func (s *Store) Apply(p model.Parameters) error {
	if p.MonthlySavings < 0 || p.StartAmount < 0 || p.DurationYears < 0 {
		return fmt.Errorf("%w: %+v", ErrNegativeInput, p)
	}
	s.MonthlySavings.Set(p.MonthlySavings)
	s.StartAmount.Set(p.StartAmount)
	s.DurationYears.Set(p.DurationYears)
	return nil
}

// Snapshot returns the current amounts.
func (s *Store) Snapshot() model.Parameters {
	m, _ := s.MonthlySavings.Get()
	st, _ := s.StartAmount.Get()
	d, _ := s.DurationYears.Get()
	return model.Parameters{MonthlySavings: m, StartAmount: st, DurationYears: d}
}

// CurrentMode returns the selected mode.
func (s *Store) CurrentMode() model.Mode {
	m, _ := s.Mode.Get()
	return m
}

func setNonNegative(c *reactive.Cell[int64], name string, v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: %s %d", ErrNegativeInput, name, v)
	}
	c.Set(v)
	return nil
}
