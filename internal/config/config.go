package config

import (
	"time"

	"github.com/radio-control/minka/internal/protocol"
)

// Radio backends.
const (
	BackendCC1101   = "cc1101"
	BackendEmulator = "emulator"
)

// Config represents the complete transmitter configuration.
type Config struct {
	Radio    RadioConfig    `yaml:"radio"`
	Switches SwitchesConfig `yaml:"switches"`
	Logging  LoggingConfig  `yaml:"logging"`
	Audit    AuditConfig    `yaml:"audit"`
}

// RadioConfig selects and tunes the transceiver.
type RadioConfig struct {
	Backend     string        `yaml:"backend"`
	Profile     string        `yaml:"profile"`
	FrequencyHz int64         `yaml:"frequencyHz"` // 0 uses the profile carrier
	MaxPower    bool          `yaml:"maxPower"`
	SPI         SPIConfig     `yaml:"spi"`
	TxTimeout   time.Duration `yaml:"txTimeout"`
	SettleDelay time.Duration `yaml:"settleDelay"`
}

// SPIConfig holds the CC1101 bus settings.
type SPIConfig struct {
	Port    string `yaml:"port"`
	SpeedHz int64  `yaml:"speedHz"`
}

// SwitchesConfig holds the remote's SW8/SW9 jumpers, in 4-digit logical
// form or 12-character symbol form.
type SwitchesConfig struct {
	SW8 string `yaml:"sw8"`
	SW9 string `yaml:"sw9"`
}

// LoggingConfig controls the process log.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// AuditConfig controls the transmission audit trail.
type AuditConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Radio: RadioConfig{
			Backend: BackendCC1101,
			Profile: protocol.ProfileDual.String(),
			SPI: SPIConfig{
				SpeedHz: 5_000_000,
			},
			TxTimeout:   500 * time.Millisecond,
			SettleDelay: time.Millisecond,
		},
		Switches: SwitchesConfig{
			SW8: protocol.DefaultSW8.String(),
			SW9: protocol.DefaultSW9.String(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Audit: AuditConfig{
			Enabled:    false,
			Dir:        "logs",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// ReceiverProfile parses Radio.Profile.
func (c *Config) ReceiverProfile() (protocol.Profile, error) {
	return protocol.ParseProfile(c.Radio.Profile)
}

// SwitchNibbles parses the SW8 and SW9 settings.
func (c *Config) SwitchNibbles() (sw8, sw9 protocol.Nibble, err error) {
	if sw8, err = protocol.ParseSwitch(c.Switches.SW8); err != nil {
		return 0, 0, err
	}
	if sw9, err = protocol.ParseSwitch(c.Switches.SW9); err != nil {
		return 0, 0, err
	}
	return sw8, sw9, nil
}
