// Package config loads runtime configuration through viper. Values come from
// .timecrisis.yaml, TIMECRISIS_* environment variables, and CLI flags bound
// by the commands, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/papapumpkin/timecrisis/internal/astro"
)

// ErrInvalid is wrapped by every validation failure returned from Load.
var ErrInvalid = errors.New("config: invalid")

// OrbsConfig holds the orb tolerances, in degrees, for each kind of scan.
type OrbsConfig struct {
	Natal       float64 `mapstructure:"natal"`
	Progression float64 `mapstructure:"progression"`
	Transit     float64 `mapstructure:"transit"`
}

// TimelineConfig controls the time map window.
type TimelineConfig struct {
	Months        int      `mapstructure:"months"`
	TransitBodies []string `mapstructure:"transit_bodies"`
}

// StoreConfig locates the chart database.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig locates the JSONL event log. An empty path disables it.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds all runtime configuration for a timecrisis session.
type Config struct {
	HouseSystem string          `mapstructure:"house_system"`
	Orbs        OrbsConfig      `mapstructure:"orbs"`
	Timeline    TimelineConfig  `mapstructure:"timeline"`
	Store       StoreConfig     `mapstructure:"store"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Verbose     bool            `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result.
func Load() (Config, error) {
	viper.SetDefault("house_system", astro.Placidus.String())
	viper.SetDefault("orbs.natal", 7.0)
	viper.SetDefault("orbs.progression", 1.0)
	viper.SetDefault("orbs.transit", 2.0)
	viper.SetDefault("timeline.months", 6)
	viper.SetDefault("timeline.transit_bodies", bodyNames(astro.OuterPlanets()))
	viper.SetDefault("store.path", filepath.Join("~", ".timecrisis", "charts.db"))
	viper.SetDefault("telemetry.path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Store.Path = ExpandHome(cfg.Store.Path)
	cfg.Telemetry.Path = ExpandHome(cfg.Telemetry.Path)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that orbs are usable, the window is non-empty, and every
// named body and house system is known.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.System(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.TransitBodies(); err != nil {
		errs = append(errs, err)
	}
	for name, v := range map[string]float64{
		"orbs.natal":       c.Orbs.Natal,
		"orbs.progression": c.Orbs.Progression,
		"orbs.transit":     c.Orbs.Transit,
	} {
		if v < 0 || v > 30 {
			errs = append(errs, fmt.Errorf("%s = %v: must be between 0 and 30", name, v))
		}
	}
	if c.Timeline.Months < 1 {
		errs = append(errs, fmt.Errorf("timeline.months = %d: must be at least 1", c.Timeline.Months))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// System returns the configured default house system.
func (c Config) System() (astro.HouseSystem, error) {
	return astro.ParseHouseSystem(c.HouseSystem)
}

// TransitBodies returns the bodies compared against the natal chart in the
// time map.
func (c Config) TransitBodies() ([]astro.Body, error) {
	bodies, err := astro.ParseBodies(c.Timeline.TransitBodies)
	if err != nil {
		return nil, err
	}
	for _, b := range bodies {
		if !b.IsPlanet() {
			return nil, fmt.Errorf("%w: %v cannot transit", astro.ErrUnknownBody, b)
		}
	}
	return bodies, nil
}

// ExpandHome replaces a leading "~" with the user's home directory. Paths
// are returned unchanged when the home directory cannot be determined.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func bodyNames(bodies []astro.Body) []string {
	out := make([]string, len(bodies))
	for i, b := range bodies {
		out[i] = b.String()
	}
	return out
}
