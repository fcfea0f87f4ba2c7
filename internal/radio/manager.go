package radio

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/radio-control/minka/internal/adapter"
	"github.com/radio-control/minka/internal/adapter/cc1101"
	"github.com/radio-control/minka/internal/adapter/emulator"
	"github.com/radio-control/minka/internal/config"
)

// ErrUnknownBackend indicates a backend name with no registered opener.
var ErrUnknownBackend = errors.New("UNKNOWN_BACKEND")

// Opener opens a backend from configuration.
type Opener func(cfg *config.Config, log logrus.FieldLogger) (adapter.Radio, error)

// Manager maps backend names to openers.
type Manager struct {
	mu      sync.RWMutex
	openers map[string]Opener
	log     logrus.FieldLogger
}

// NewManager creates a manager with the cc1101 and emulator backends.
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Manager{
		openers: make(map[string]Opener),
		log:     log,
	}
	m.Register(config.BackendCC1101, openCC1101)
	m.Register(config.BackendEmulator, openEmulator)
	return m
}

// Register adds or replaces the opener for name.
func (m *Manager) Register(name string, open Opener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openers[name] = open
}

// Backends returns the registered names in sorted order.
func (m *Manager) Backends() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.openers))
	for name := range m.openers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the backend named by cfg.Radio.Backend. The caller owns the
// returned radio and must release it.
func (m *Manager) Open(cfg *config.Config) (adapter.Radio, error) {
	m.mu.RLock()
	open, ok := m.openers[cfg.Radio.Backend]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownBackend, cfg.Radio.Backend, m.Backends())
	}

	log := m.log.WithField("backend", cfg.Radio.Backend)
	r, err := open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s radio: %w", cfg.Radio.Backend, err)
	}
	log.WithField("model", describe(r)).Debug("radio opened")
	return r, nil
}

func describe(r adapter.Radio) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", r)
}

func openCC1101(cfg *config.Config, log logrus.FieldLogger) (adapter.Radio, error) {
	return cc1101.Open(cc1101.Options{
		Port:        cfg.Radio.SPI.Port,
		SpeedHz:     cfg.Radio.SPI.SpeedHz,
		TxTimeout:   cfg.Radio.TxTimeout,
		SettleDelay: cfg.Radio.SettleDelay,
		Logger:      log,
	})
}

func openEmulator(cfg *config.Config, log logrus.FieldLogger) (adapter.Radio, error) {
	profile, err := cfg.ReceiverProfile()
	if err != nil {
		return nil, err
	}
	return emulator.New(emulator.Options{
		Profile: profile,
		Logger:  log,
	}), nil
}
