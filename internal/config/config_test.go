package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dset/arsavings/internal/model"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Finance.AnnualRate != 0.0846 {
		t.Fatalf("AnnualRate = %v, want 0.0846", cfg.Finance.AnnualRate)
	}
	if cfg.Geometry != DefaultGeometry() {
		t.Fatalf("Geometry = %+v, want defaults", cfg.Geometry)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Finance.AnnualRate = 0.05
	cfg.Assets.Car.Price = 250_000
	cfg.Display.Locale = "en-US"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Finance.AnnualRate != 0.05 {
		t.Errorf("AnnualRate = %v, want 0.05", got.Finance.AnnualRate)
	}
	if got.Assets.Car.Price != 250_000 {
		t.Errorf("Car.Price = %v, want 250000", got.Assets.Car.Price)
	}
	if got.Assets.Car.Position != [3]float64{0, 0, 0.6} {
		t.Errorf("Car.Position = %v, want [0 0 0.6]", got.Assets.Car.Position)
	}
	if got.Display.Locale != "en-US" {
		t.Errorf("Locale = %q, want en-US", got.Display.Locale)
	}
}

func TestLoadFile_PartialOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[layout]\nmax_pile_height = 0.25\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Geometry.MaxPileHeight != 0.25 {
		t.Errorf("MaxPileHeight = %v, want 0.25", cfg.Geometry.MaxPileHeight)
	}
	if cfg.Geometry.BillWidth != 0.133 {
		t.Errorf("BillWidth = %v, want default 0.133", cfg.Geometry.BillWidth)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ARSAVINGS_FINANCE_ANNUAL_RATE", "0.07")
	t.Setenv("ARSAVINGS_ASSETS_HOME_PRICE", "2000000")
	t.Setenv("ARSAVINGS_GENERAL_ASSETS_DIR", "/tmp/assets")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Finance.AnnualRate != 0.07 {
		t.Errorf("AnnualRate = %v, want 0.07", cfg.Finance.AnnualRate)
	}
	if cfg.Assets.Home.Price != 2_000_000 {
		t.Errorf("Home.Price = %v, want 2000000", cfg.Assets.Home.Price)
	}
	if cfg.General.AssetsDir != "/tmp/assets" {
		t.Errorf("AssetsDir = %q, want /tmp/assets", cfg.General.AssetsDir)
	}
	if cfg.Assets.Car.Price != 300_000 {
		t.Errorf("Car.Price = %v, want untouched 300000", cfg.Assets.Car.Price)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rate", func(c *Config) { c.Finance.AnnualRate = -0.01 }},
		{"zero pile height", func(c *Config) { c.Geometry.MaxPileHeight = 0 }},
		{"negative bill width", func(c *Config) { c.Geometry.BillWidth = -1 }},
		{"zero minor unit", func(c *Config) { c.Geometry.MinorUnit = 0 }},
		{"free car", func(c *Config) { c.Assets.Car.Price = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	zeroRate := DefaultConfig()
	zeroRate.Finance.AnnualRate = 0
	if err := zeroRate.Validate(); err != nil {
		t.Fatalf("zero rate rejected: %v", err)
	}
}

func TestAssetsForMode(t *testing.T) {
	a := DefaultAssets()
	if _, ok := a.ForMode(model.ModeCash); ok {
		t.Fatal("ForMode(cash) returned an asset")
	}
	car, ok := a.ForMode(model.ModeCar)
	if !ok || car.Price != 300_000 {
		t.Fatalf("ForMode(car) = %+v, %v", car, ok)
	}
	home, ok := a.ForMode(model.ModeHome)
	if !ok || home.Price != 1_000_000 {
		t.Fatalf("ForMode(home) = %+v, %v", home, ok)
	}
}
