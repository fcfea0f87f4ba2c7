package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// EnvConfigFile names the YAML file used when Load is given no path.
const EnvConfigFile = "MINKA_CONFIG"

// Load merges defaults, the YAML file at path (or $MINKA_CONFIG when path is
// empty) and MINKA_* environment overrides, then validates the result. With
// no file configured only defaults and environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current value; unknown keys are rejected.
func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// applyEnvOverrides applies MINKA_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"MINKA_RADIO_BACKEND", &cfg.Radio.Backend},
		{"MINKA_PROFILE", &cfg.Radio.Profile},
		{"MINKA_SPI_PORT", &cfg.Radio.SPI.Port},
		{"MINKA_SW8", &cfg.Switches.SW8},
		{"MINKA_SW9", &cfg.Switches.SW9},
		{"MINKA_LOG_LEVEL", &cfg.Logging.Level},
		{"MINKA_LOG_FILE", &cfg.Logging.File},
		{"MINKA_AUDIT_DIR", &cfg.Audit.Dir},
	}
	for _, s := range strs {
		if val := os.Getenv(s.key); val != "" {
			*s.dst = val
		}
	}

	ints := []struct {
		key string
		dst *int64
	}{
		{"MINKA_FREQUENCY_HZ", &cfg.Radio.FrequencyHz},
		{"MINKA_SPI_SPEED_HZ", &cfg.Radio.SPI.SpeedHz},
	}
	for _, s := range ints {
		if val := os.Getenv(s.key); val != "" {
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", s.key, err)
			}
			*s.dst = n
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"MINKA_MAX_POWER", &cfg.Radio.MaxPower},
		{"MINKA_AUDIT_ENABLED", &cfg.Audit.Enabled},
	}
	for _, s := range bools {
		if val := os.Getenv(s.key); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("%s: %w", s.key, err)
			}
			*s.dst = b
		}
	}

	if val := os.Getenv("MINKA_TX_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("MINKA_TX_TIMEOUT: %w", err)
		}
		cfg.Radio.TxTimeout = d
	}
	return nil
}
