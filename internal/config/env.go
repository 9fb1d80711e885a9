package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g.
// ARSAVINGS_FINANCE_ANNUAL_RATE or ARSAVINGS_ASSETS_CAR_PRICE.
const EnvPrefix = "ARSAVINGS_"

// ApplyEnv overlays ARSAVINGS_* environment variables onto cfg. Unset
// variables leave the corresponding field untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
