// Package finance projects total savings from monthly contributions, a
// starting capital and a duration.
package finance

import "math"

// DefaultRate is the nominal annual rate used when none is configured.
const DefaultRate = 0.0846

// Projector compounds savings annually at Rate.
type Projector struct {
	Rate float64
}

// New returns a projector for the given annual rate.
func New(rate float64) Projector {
	return Projector{Rate: rate}
}

// Project returns the savings total after years, rounded to a whole unit:
//
//	start*(1+r)^years + 12*monthly*((1+r)^years-1)/r
//
// A zero rate degenerates to start + 12*monthly*years. Negative inputs are
// treated as zero.
func (p Projector) Project(monthly, start, years int64) int64 {
	monthly = max(monthly, 0)
	start = max(start, 0)
	years = max(years, 0)

	r := max(p.Rate, 0)
	if r == 0 {
		return start + 12*monthly*years
	}

	growth := math.Pow(1+r, float64(years))
	total := float64(start)*growth + 12*float64(monthly)*(growth-1)/r
	return int64(math.Round(total))
}

// YearPoint is the projected total at the end of a given year.
type YearPoint struct {
	Year  int64
	Total int64
	// Contributed is the sum of the starting capital and all monthly
	// contributions made so far.
	Contributed int64
}

// Schedule returns one point per year from 0 through years inclusive.
func (p Projector) Schedule(monthly, start, years int64) []YearPoint {
	years = max(years, 0)
	points := make([]YearPoint, 0, years+1)
	for y := int64(0); y <= years; y++ {
		points = append(points, YearPoint{
			Year:        y,
			Total:       p.Project(monthly, start, y),
			Contributed: max(start, 0) + 12*max(monthly, 0)*y,
		})
	}
	return points
}
