package mission

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alliance selects which side of the field the mission runs on.
type Alliance string

const (
	AllianceRed  Alliance = "red"
	AllianceBlue Alliance = "blue"
)

// Config holds every tunable the shuttle routine reads. Values come from a
// YAML file with environment-variable overrides; zero-value fields fall back
// to defaults on load.
type Config struct {
	Alliance   Alliance `yaml:"alliance"`
	StartDelay float64  `yaml:"start_delay"` // seconds; 0 means start immediately

	// Time budget. The mission stops shuttling once the remaining time could
	// not fit another round trip.
	Budget        float64 `yaml:"budget"`          // total autonomous period, seconds
	CycleTripTime float64 `yaml:"cycle_trip_time"` // one hub round trip, seconds

	// Pickup behavior.
	RetryHeadingInc float64 `yaml:"retry_heading_inc"` // degrees added per retry
	RetryCap        int     `yaml:"retry_cap"`         // 0 disables the cap
	UseVisionPickup bool    `yaml:"use_vision_pickup"`
	HintFallback    int     `yaml:"hint_fallback"` // shelf level when no detection

	// Gate for the back-out-and-realign return route instead of driving
	// straight out of the warehouse.
	BackoutRealign bool `yaml:"backout_realign"`

	// Actuator tuning.
	PickupPower       float64 `yaml:"pickup_power"`
	DumpPower         float64 `yaml:"dump_power"`
	DumpTime          float64 `yaml:"dump_time"` // seconds
	PickupOutputLimit float64 `yaml:"pickup_output_limit"`
	AlignTime         float64 `yaml:"align_time"` // wall nudge, seconds
	EnterTime         float64 `yaml:"enter_time"` // warehouse entry drive, seconds
}

// DefaultConfig returns the competition tuning.
func DefaultConfig() Config {
	return Config{
		Alliance:          AllianceRed,
		StartDelay:        0.0,
		Budget:            30.0,
		CycleTripTime:     5.0,
		RetryHeadingInc:   5.0,
		RetryCap:          0,
		HintFallback:      3,
		PickupPower:       1.0,
		DumpPower:         -0.6,
		DumpTime:          0.8,
		PickupOutputLimit: 0.3,
		AlignTime:         0.8,
		EnterTime:         1.0,
	}
}

// LoadConfig reads a YAML config file, fills unset fields from defaults,
// applies environment overrides, and validates the result. An empty path
// yields the defaults (plus overrides).
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configs the mission cannot run with.
func (c Config) Validate() error {
	switch c.Alliance {
	case AllianceRed, AllianceBlue:
	default:
		return fmt.Errorf("alliance must be %q or %q, got %q", AllianceRed, AllianceBlue, c.Alliance)
	}
	if c.StartDelay < 0 {
		return fmt.Errorf("start_delay must not be negative, got %v", c.StartDelay)
	}
	if c.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %v", c.Budget)
	}
	if c.CycleTripTime <= 0 || c.CycleTripTime >= c.Budget {
		return fmt.Errorf("cycle_trip_time must be in (0, budget), got %v", c.CycleTripTime)
	}
	if c.RetryCap < 0 {
		return fmt.Errorf("retry_cap must not be negative, got %d", c.RetryCap)
	}
	if c.HintFallback < 1 || c.HintFallback > 3 {
		return fmt.Errorf("hint_fallback must be a shelf level 1-3, got %d", c.HintFallback)
	}
	if c.PickupOutputLimit <= 0 || c.PickupOutputLimit > 1 {
		return fmt.Errorf("pickup_output_limit must be in (0, 1], got %v", c.PickupOutputLimit)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := getEnv("AUTOSEQ_ALLIANCE", ""); v != "" {
		c.Alliance = Alliance(strings.ToLower(v))
	}
	c.StartDelay = getEnvFloat("AUTOSEQ_START_DELAY", c.StartDelay)
	c.Budget = getEnvFloat("AUTOSEQ_BUDGET", c.Budget)
	c.RetryCap = getEnvInt("AUTOSEQ_RETRY_CAP", c.RetryCap)
	if v := os.Getenv("AUTOSEQ_BACKOUT_REALIGN"); v != "" {
		c.BackoutRealign = v == "1" || strings.EqualFold(v, "true")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
