package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("INVALID_CONFIG")

// Validate checks cfg for consistency.
func Validate(cfg *Config) error {
	switch cfg.Radio.Backend {
	case BackendCC1101, BackendEmulator:
	default:
		return fmt.Errorf("%w: radio.backend %q (want %s or %s)", ErrInvalidConfig, cfg.Radio.Backend, BackendCC1101, BackendEmulator)
	}

	if _, err := cfg.ReceiverProfile(); err != nil {
		return fmt.Errorf("%w: radio.profile: %v", ErrInvalidConfig, err)
	}
	if cfg.Radio.FrequencyHz < 0 {
		return fmt.Errorf("%w: radio.frequencyHz must not be negative", ErrInvalidConfig)
	}
	if cfg.Radio.SPI.SpeedHz < 0 {
		return fmt.Errorf("%w: radio.spi.speedHz must not be negative", ErrInvalidConfig)
	}
	if cfg.Radio.TxTimeout < 0 || cfg.Radio.SettleDelay < 0 {
		return fmt.Errorf("%w: radio timeouts must not be negative", ErrInvalidConfig)
	}

	if _, _, err := cfg.SwitchNibbles(); err != nil {
		return fmt.Errorf("%w: switches: %v", ErrInvalidConfig, err)
	}

	if _, err := logrus.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxBackups < 0 || cfg.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("%w: logging rotation limits must not be negative", ErrInvalidConfig)
	}

	if cfg.Audit.Enabled && cfg.Audit.Dir == "" {
		return fmt.Errorf("%w: audit.dir is required when audit is enabled", ErrInvalidConfig)
	}
	if cfg.Audit.MaxSizeMB < 0 || cfg.Audit.MaxBackups < 0 {
		return fmt.Errorf("%w: audit rotation limits must not be negative", ErrInvalidConfig)
	}
	return nil
}
