// Package layout places a savings total as height-capped piles of bills on a
// square spiral, plus a coin stack for the remainder.
package layout

import (
	"math"

	"github.com/dset/arsavings/internal/config"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pile is one vertical stack of bills on the spiral grid.
type Pile struct {
	GridX  int
	GridY  int
	Height float64
	// Position is the world position of the pile's footprint center at
	// floor level (Y = 0).
	Position r3.Vec
}

// Coin is the stack of minor-unit coins placed behind the piles.
type Coin struct {
	Height   float64
	Position r3.Vec
}

// Result is the full placement for one savings total.
type Result struct {
	Total       int64
	Major       int64
	Minor       int64
	TotalHeight float64
	Piles       []Pile
	Coin        Coin
	LabelAnchor r3.Vec
}

// Layout computes pile placements for total using the tuning table g.
// Negative totals are treated as zero.
func Layout(total int64, g config.Geometry) Result {
	total = max(total, 0)

	minor := total % g.MinorUnit
	major := total - minor
	totalHeight := float64(major) / float64(g.BundleValue) * g.HeightPerBundle

	numPiles := 0
	if totalHeight > 0 {
		numPiles = int(math.Ceil(totalHeight / g.MaxPileHeight))
	}
	// Rounding in the product can leave an empty last pile.
	for numPiles > 0 && totalHeight-g.MaxPileHeight*float64(numPiles-1) <= 0 {
		numPiles--
	}

	res := Result{
		Total:       total,
		Major:       major,
		Minor:       minor,
		TotalHeight: totalHeight,
		Piles:       make([]Pile, 0, numPiles),
	}

	var (
		sp   spiral
		maxZ float64
	)
	sp.reset()
	for i := 0; i < numPiles; i++ {
		height := g.MaxPileHeight
		if i == numPiles-1 {
			height = totalHeight - g.MaxPileHeight*float64(numPiles-1)
		}

		x, y := sp.x, sp.y
		pos := r3.Vec{
			X: float64(x) * (g.BillWidth + g.PilePadding),
			Z: float64(y) * (g.BillHeight + g.PilePadding),
		}
		maxZ = max(maxZ, pos.Z)

		res.Piles = append(res.Piles, Pile{GridX: x, GridY: y, Height: height, Position: pos})
		sp.next()
	}

	res.Coin = Coin{
		Height:   float64(minor) * g.CoinHeightPerUnit,
		Position: r3.Vec{Z: maxZ + g.BillHeight},
	}

	var labelY float64
	switch numPiles {
	case 0:
		labelY = 0
	case 1:
		labelY = totalHeight
	default:
		labelY = g.MaxPileHeight
	}
	res.LabelAnchor = r3.Vec{Y: labelY + g.LabelPadding}

	return res
}

// SpiralCell returns the grid cell of the i-th pile in spiral order.
func SpiralCell(i int) (x, y int) {
	var sp spiral
	sp.reset()
	for ; i > 0; i-- {
		sp.next()
	}
	return sp.x, sp.y
}

// spiral walks the integer grid outward from the origin, turning 90° at the
// corners of each square ring.
type spiral struct {
	x, y   int
	dx, dy int
}

func (s *spiral) reset() {
	*s = spiral{dx: 0, dy: -1}
}

func (s *spiral) next() {
	if s.x == s.y || (s.x < 0 && s.x == -s.y) || (s.x > 0 && s.x == 1-s.y) {
		s.dx, s.dy = -s.dy, s.dx
	}
	s.x += s.dx
	s.y += s.dy
}
