package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radio-control/minka/internal/protocol"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minka.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Radio.Backend != BackendCC1101 {
		t.Errorf("Expected backend cc1101, got %s", cfg.Radio.Backend)
	}
	if cfg.Radio.Profile != "dual" {
		t.Errorf("Expected profile dual, got %s", cfg.Radio.Profile)
	}
	if cfg.Radio.TxTimeout != 500*time.Millisecond {
		t.Errorf("Expected txTimeout 500ms, got %v", cfg.Radio.TxTimeout)
	}
	if cfg.Audit.Enabled {
		t.Error("Audit should be disabled by default")
	}

	sw8, sw9, err := cfg.SwitchNibbles()
	if err != nil {
		t.Fatalf("SwitchNibbles() failed: %v", err)
	}
	if sw8 != protocol.DefaultSW8 || sw9 != protocol.DefaultSW9 {
		t.Errorf("Expected default switches, got %v %v", sw8, sw9)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Default config does not validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Radio.Backend != BackendCC1101 {
		t.Errorf("Expected default backend, got %s", cfg.Radio.Backend)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, `
radio:
  backend: emulator
  profile: single
  frequencyHz: 303900000
  maxPower: true
  spi:
    port: /dev/spidev0.1
  txTimeout: 250ms
switches:
  sw8: "1111"
  sw9: "010010010010"
audit:
  enabled: true
  dir: /tmp/minka-audit
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Radio.Backend != BackendEmulator {
		t.Errorf("Expected backend emulator, got %s", cfg.Radio.Backend)
	}
	if p, _ := cfg.ReceiverProfile(); p != protocol.ProfileSingle {
		t.Errorf("Expected single profile, got %v", p)
	}
	if cfg.Radio.FrequencyHz != 303_900_000 {
		t.Errorf("Expected frequency 303900000, got %d", cfg.Radio.FrequencyHz)
	}
	if !cfg.Radio.MaxPower {
		t.Error("Expected maxPower true")
	}
	if cfg.Radio.SPI.Port != "/dev/spidev0.1" {
		t.Errorf("Expected SPI port /dev/spidev0.1, got %s", cfg.Radio.SPI.Port)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Radio.SPI.SpeedHz != 5_000_000 {
		t.Errorf("Expected default SPI speed, got %d", cfg.Radio.SPI.SpeedHz)
	}
	if cfg.Radio.TxTimeout != 250*time.Millisecond {
		t.Errorf("Expected txTimeout 250ms, got %v", cfg.Radio.TxTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level, got %s", cfg.Logging.Level)
	}

	sw8, sw9, err := cfg.SwitchNibbles()
	if err != nil {
		t.Fatalf("SwitchNibbles() failed: %v", err)
	}
	if sw8 != 0b1111 || sw9 != 0b0000 {
		t.Errorf("Expected switches 1111/0000, got %v/%v", sw8, sw9)
	}
}

func TestLoadFromEnvConfigFile(t *testing.T) {
	path := writeFile(t, "radio:\n  backend: emulator\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Radio.Backend != BackendEmulator {
		t.Errorf("Expected backend from %s, got %s", EnvConfigFile, cfg.Radio.Backend)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.yaml")},
		{"malformed yaml", writeFile(t, "radio: [\n")},
		{"unknown key", writeFile(t, "radio:\n  antenna: big\n")},
		{"bad duration", writeFile(t, "radio:\n  txTimeout: soon\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Load(%s) should have failed", tt.path)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "radio:\n  backend: cc1101\n  profile: single\n")
	t.Setenv("MINKA_RADIO_BACKEND", "emulator")
	t.Setenv("MINKA_PROFILE", "tr110a")
	t.Setenv("MINKA_FREQUENCY_HZ", "304250000")
	t.Setenv("MINKA_MAX_POWER", "true")
	t.Setenv("MINKA_TX_TIMEOUT", "1s")
	t.Setenv("MINKA_SW9", "0101")
	t.Setenv("MINKA_LOG_LEVEL", "debug")
	t.Setenv("MINKA_AUDIT_ENABLED", "1")
	t.Setenv("MINKA_AUDIT_DIR", "/var/log/minka")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Radio.Backend != BackendEmulator {
		t.Errorf("Environment should override file backend, got %s", cfg.Radio.Backend)
	}
	if p, _ := cfg.ReceiverProfile(); p != protocol.ProfileDual {
		t.Errorf("Expected dual profile, got %v", p)
	}
	if cfg.Radio.FrequencyHz != 304_250_000 {
		t.Errorf("Expected frequency 304250000, got %d", cfg.Radio.FrequencyHz)
	}
	if !cfg.Radio.MaxPower {
		t.Error("Expected maxPower from environment")
	}
	if cfg.Radio.TxTimeout != time.Second {
		t.Errorf("Expected txTimeout 1s, got %v", cfg.Radio.TxTimeout)
	}
	if cfg.Switches.SW9 != "0101" {
		t.Errorf("Expected SW9 0101, got %s", cfg.Switches.SW9)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Dir != "/var/log/minka" {
		t.Errorf("Unexpected audit config: %+v", cfg.Audit)
	}
}

func TestEnvOverrideParseErrors(t *testing.T) {
	for _, key := range []string{"MINKA_FREQUENCY_HZ", "MINKA_MAX_POWER", "MINKA_TX_TIMEOUT", "MINKA_SPI_SPEED_HZ"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(EnvConfigFile, "")
			t.Setenv(key, "not-a-value")
			if _, err := Load(""); err == nil {
				t.Errorf("Load() should reject %s=not-a-value", key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Radio.Backend = "hackrf" }},
		{"unknown profile", func(c *Config) { c.Radio.Profile = "triple" }},
		{"negative frequency", func(c *Config) { c.Radio.FrequencyHz = -1 }},
		{"negative spi speed", func(c *Config) { c.Radio.SPI.SpeedHz = -1 }},
		{"negative timeout", func(c *Config) { c.Radio.TxTimeout = -time.Second }},
		{"bad sw8", func(c *Config) { c.Switches.SW8 = "012" }},
		{"bad sw9 symbols", func(c *Config) { c.Switches.SW9 = "010010010011" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"negative log rotation", func(c *Config) { c.Logging.MaxBackups = -1 }},
		{"audit without dir", func(c *Config) { c.Audit.Enabled = true; c.Audit.Dir = "" }},
		{"negative audit size", func(c *Config) { c.Audit.MaxSizeMB = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateSwitchErrorIsInvalidSwitch(t *testing.T) {
	cfg := Default()
	cfg.Switches.SW8 = "abcd"
	if err := Validate(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate() = %v", err)
	}
	if _, _, err := cfg.SwitchNibbles(); !errors.Is(err, protocol.ErrInvalidSwitch) {
		t.Errorf("SwitchNibbles() = %v, want ErrInvalidSwitch", err)
	}
}
