// Package config loads arsavings configuration and the geometry tuning table.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all arsavings configuration.
type Config struct {
	General    GeneralConfig    `toml:"general" envPrefix:"GENERAL_"`
	Finance    FinanceConfig    `toml:"finance" envPrefix:"FINANCE_"`
	Geometry   Geometry         `toml:"layout" envPrefix:"LAYOUT_"`
	Assets     AssetsConfig     `toml:"assets" envPrefix:"ASSETS_"`
	Display    DisplayConfig    `toml:"display" envPrefix:"DISPLAY_"`
	Appearance AppearanceConfig `toml:"appearance" envPrefix:"APPEARANCE_"`
	Daemon     DaemonConfig     `toml:"daemon" envPrefix:"DAEMON_"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	AssetsDir   string `toml:"assets_dir,omitempty" env:"ASSETS_DIR"`
	DefaultMode string `toml:"default_mode" env:"DEFAULT_MODE"`
}

// FinanceConfig holds the projection rate.
type FinanceConfig struct {
	// AnnualRate is the nominal annual growth rate, e.g. 0.0846.
	AnnualRate float64 `toml:"annual_rate" env:"ANNUAL_RATE"`
}

// DisplayConfig controls how amounts are printed by the hosts.
type DisplayConfig struct {
	Locale         string `toml:"locale" env:"LOCALE"`
	CurrencySymbol string `toml:"currency_symbol" env:"CURRENCY_SYMBOL"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"THEME"`
}

// DaemonConfig holds defaults for `arsavings daemon`.
type DaemonConfig struct {
	Addr         string `toml:"addr" env:"ADDR"`
	EventsBuffer int    `toml:"events_buffer" env:"EVENTS_BUFFER"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMode: "cash",
		},
		Finance: FinanceConfig{
			AnnualRate: 0.0846,
		},
		Geometry: DefaultGeometry(),
		Assets:   DefaultAssets(),
		Display: DisplayConfig{
			Locale:         "sv-SE",
			CurrencySymbol: "kr",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8797",
			EventsBuffer: 200,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "arsavings")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "arsavings")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file and environment overrides, returning defaults
// if no file exists.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path, then applies ARSAVINGS_* environment
// overrides and validates the result.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config location
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path, creating parent directories.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate checks that every tuning value can drive the geometry.
func (c Config) Validate() error {
	if c.Finance.AnnualRate < 0 {
		return fmt.Errorf("%w: finance.annual_rate %.4f is negative", ErrInvalidConfig, c.Finance.AnnualRate)
	}
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	for _, a := range []struct {
		name  string
		asset Asset
	}{
		{"car", c.Assets.Car},
		{"home", c.Assets.Home},
	} {
		if a.asset.Price <= 0 {
			return fmt.Errorf("%w: assets.%s.price must be positive", ErrInvalidConfig, a.name)
		}
		if a.asset.DefaultSubmeshes < 0 {
			return fmt.Errorf("%w: assets.%s.default_submeshes is negative", ErrInvalidConfig, a.name)
		}
	}
	if c.Daemon.EventsBuffer < 0 {
		return fmt.Errorf("%w: daemon.events_buffer is negative", ErrInvalidConfig)
	}
	return nil
}
