package config

import (
	"github.com/dset/arsavings/internal/model"
)

// Asset describes a priced 3D asset revealed in proportion to savings.
type Asset struct {
	File  string  `toml:"file" env:"FILE"`
	Price float64 `toml:"price" env:"PRICE"`
	Seed  uint64  `toml:"seed" env:"SEED"`
	// DefaultSubmeshes is used when the asset file cannot be found in the
	// assets directory.
	DefaultSubmeshes int        `toml:"default_submeshes" env:"DEFAULT_SUBMESHES"`
	Scale            float64    `toml:"scale" env:"SCALE"`
	Position         [3]float64 `toml:"position"`
	RotationDeg      float64    `toml:"rotation_deg" env:"ROTATION_DEG"`
	RotationAxis     [3]float64 `toml:"rotation_axis"`
	LabelHeight      float64    `toml:"label_height" env:"LABEL_HEIGHT"`
}

// AssetsConfig holds the asset used by each non-cash mode.
type AssetsConfig struct {
	Car  Asset `toml:"car" envPrefix:"CAR_"`
	Home Asset `toml:"home" envPrefix:"HOME_"`
}

// DefaultAssets returns the stock car and house assets.
func DefaultAssets() AssetsConfig {
	return AssetsConfig{
		Car: Asset{
			File:             "car.gltf",
			Price:            300_000,
			Seed:             1,
			DefaultSubmeshes: 24,
			Scale:            0.35,
			Position:         [3]float64{0, 0, 0.6},
			RotationDeg:      -90,
			RotationAxis:     [3]float64{1, 0, 0},
			LabelHeight:      0.5,
		},
		Home: Asset{
			File:             "house.gltf",
			Price:            1_000_000,
			Seed:             1,
			DefaultSubmeshes: 32,
			Scale:            0.5,
			Position:         [3]float64{0, 0, -0.3},
			RotationAxis:     [3]float64{0, 1, 0},
			LabelHeight:      0.75,
		},
	}
}

// ForMode returns the asset for an asset mode. The bool is false for cash.
func (a AssetsConfig) ForMode(m model.Mode) (Asset, bool) {
	switch m {
	case model.ModeCar:
		return a.Car, true
	case model.ModeHome:
		return a.Home, true
	default:
		return Asset{}, false
	}
}
