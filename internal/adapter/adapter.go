package adapter

import (
	"context"
	"fmt"
)

// Modulation selects the transceiver modulation format.
type Modulation int

const (
	// ModulationASKOOK is amplitude shift keying with the carrier fully on or off.
	ModulationASKOOK Modulation = iota + 1
)

func (m Modulation) String() string {
	if m == ModulationASKOOK {
		return "ASK/OOK"
	}
	return fmt.Sprintf("Modulation(%d)", int(m))
}

// SyncMode selects sync-word framing.
type SyncMode int

const (
	// SyncNone transmits the FIFO contents with no preamble or sync word.
	SyncNone SyncMode = 0
	// Sync16of16 prepends a 16-bit sync word.
	Sync16of16 SyncMode = 2
)

// Radio is the transceiver capability set consumed by the transmission driver.
// Implementations are owned by a single caller and need not be safe for
// concurrent use.
type Radio interface {
	// SetFrequency tunes the carrier in Hz.
	SetFrequency(ctx context.Context, hz int64) error

	// SetMaxPower selects the highest transmit power level.
	SetMaxPower(ctx context.Context) error

	// SetModulation selects the modulation format.
	SetModulation(ctx context.Context, mode Modulation) error

	// SetDataRate sets the symbol rate in baud.
	SetDataRate(ctx context.Context, baud int) error

	// SetFixedFrameLength configures fixed-length packets of n bytes.
	SetFixedFrameLength(ctx context.Context, n int) error

	// SetSyncMode selects sync-word framing.
	SetSyncMode(ctx context.Context, mode SyncMode) error

	// TransmitRaw emits data as one packet and blocks until it is on the air.
	TransmitRaw(ctx context.Context, data []byte) error

	// SetIdle returns the transceiver to its idle state.
	SetIdle(ctx context.Context) error

	// Cleanup releases the device. No other call is valid afterwards.
	Cleanup() error
}

// AdapterBase provides common identification for backend implementations.
type AdapterBase struct {
	// Backend names the implementation, e.g. "cc1101".
	Backend string

	// Model identifies the device.
	Model string
}

// GetBackend returns the backend name.
func (a *AdapterBase) GetBackend() string {
	return a.Backend
}

// GetModel returns the device model.
func (a *AdapterBase) GetModel() string {
	return a.Model
}

// String implements fmt.Stringer.
func (a *AdapterBase) String() string {
	return fmt.Sprintf("%s (%s)", a.Backend, a.Model)
}
