package config

import "fmt"

// Geometry is the tuning table for the cash pile layout. Lengths are in
// meters, amounts in whole currency units.
type Geometry struct {
	MaxPileHeight     float64 `toml:"max_pile_height" env:"MAX_PILE_HEIGHT"`
	BillWidth         float64 `toml:"bill_width" env:"BILL_WIDTH"`
	BillHeight        float64 `toml:"bill_height" env:"BILL_HEIGHT"`
	PilePadding       float64 `toml:"pile_padding" env:"PILE_PADDING"`
	LabelPadding      float64 `toml:"label_padding" env:"LABEL_PADDING"`
	CoinHeightPerUnit float64 `toml:"coin_height_per_unit" env:"COIN_HEIGHT_PER_UNIT"`
	CoinRadius        float64 `toml:"coin_radius" env:"COIN_RADIUS"`
	// HeightPerBundle is the stack height of BundleValue worth of bills.
	HeightPerBundle float64 `toml:"height_per_bundle" env:"HEIGHT_PER_BUNDLE"`
	BundleValue     int64   `toml:"bundle_value" env:"BUNDLE_VALUE"`
	// MinorUnit splits a total into bills (multiples) and coins (remainder).
	MinorUnit  int64   `toml:"minor_unit" env:"MINOR_UNIT"`
	FaceOffset float64 `toml:"face_offset" env:"FACE_OFFSET"`
}

// DefaultGeometry returns the tuning for 100-unit bills stacked 0.0125 m
// per 10 000 units.
func DefaultGeometry() Geometry {
	return Geometry{
		MaxPileHeight:     0.5,
		BillWidth:         0.133,
		BillHeight:        0.066,
		PilePadding:       0.04,
		LabelPadding:      0.1,
		CoinHeightPerUnit: 0.00179,
		CoinRadius:        0.00975,
		HeightPerBundle:   0.0125,
		BundleValue:       10_000,
		MinorUnit:         100,
		FaceOffset:        0.001,
	}
}

// Validate rejects tunings that would divide by zero or produce negative
// geometry.
func (g Geometry) Validate() error {
	if g.MaxPileHeight <= 0 {
		return fmt.Errorf("%w: layout.max_pile_height must be positive", ErrInvalidConfig)
	}
	if g.BundleValue <= 0 || g.MinorUnit <= 0 {
		return fmt.Errorf("%w: layout.bundle_value and layout.minor_unit must be positive", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"bill_width":           g.BillWidth,
		"bill_height":          g.BillHeight,
		"pile_padding":         g.PilePadding,
		"label_padding":        g.LabelPadding,
		"coin_height_per_unit": g.CoinHeightPerUnit,
		"coin_radius":          g.CoinRadius,
		"height_per_bundle":    g.HeightPerBundle,
		"face_offset":          g.FaceOffset,
	} {
		if v < 0 {
			return fmt.Errorf("%w: layout.%s is negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
