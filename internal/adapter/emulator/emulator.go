// Package emulator provides an in-process transceiver that validates its
// configuration the way a CC1101 would and decodes every transmitted frame as
// the fan receiver would hear it.
package emulator

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/radio-control/minka/internal/adapter"
	"github.com/radio-control/minka/internal/adapter/cc1101"
	"github.com/radio-control/minka/internal/protocol"
)

// Band is an inclusive carrier range in Hz.
type Band = cc1101.Band

// DefaultBands are the CC1101 synthesizer bands.
var DefaultBands = cc1101.Bands

// Limits mirror the CC1101 in fixed-length FIFO mode.
const (
	MinBaud     = cc1101.MinBaud
	MaxBaud     = cc1101.MaxBaud
	MaxFrameLen = 64
)

// Options configures an Emulator.
type Options struct {
	// Bands lists the acceptable carrier ranges. Empty means DefaultBands.
	Bands []Band

	// Profile is the receiver revision used to decode frames.
	Profile protocol.Profile

	// Realtime makes TransmitRaw block for the frame's airtime.
	Realtime bool

	Logger logrus.FieldLogger
}

// Status is a snapshot of the emulated transceiver.
type Status struct {
	State       string
	FrequencyHz int64
	Baud        int
	FrameLen    int
	Modulation  adapter.Modulation
	SyncMode    adapter.SyncMode
	MaxPower    bool
	Frames      int
}

// Emulator implements adapter.Radio in memory.
type Emulator struct {
	adapter.AdapterBase

	mu         sync.Mutex
	bands      []Band
	profile    protocol.Profile
	realtime   bool
	log        logrus.FieldLogger
	state      string
	frequency  int64
	baud       int
	frameLen   int
	modulation adapter.Modulation
	syncMode   adapter.SyncMode
	maxPower   bool
	frames     int
	received   []protocol.Packet
}

// Compile-time assertion that Emulator implements adapter.Radio
var _ adapter.Radio = (*Emulator)(nil)

// Emulator states.
const (
	StateIdle   = "idle"
	StateTX     = "tx"
	StateClosed = "closed"
)

// New creates an idle emulator.
func New(opts Options) *Emulator {
	bands := opts.Bands
	if len(bands) == 0 {
		bands = DefaultBands
	}
	profile := opts.Profile
	if profile == 0 {
		profile = protocol.ProfileDual
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}

	return &Emulator{
		AdapterBase: adapter.AdapterBase{
			Backend: "emulator",
			Model:   "CC1101-Emulator",
		},
		bands:    bands,
		profile:  profile,
		realtime: opts.Realtime,
		log:      log.WithField("radio", "emulator"),
		state:    StateIdle,
	}
}

// guard rejects calls on a cancelled context or a closed emulator.
// Callers hold e.mu.
func (e *Emulator) guard(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.state == StateClosed {
		return fmt.Errorf("%w: %s after cleanup", adapter.ErrClosed, op)
	}
	return nil
}

// inBand reports whether hz falls in one of the configured bands.
func (e *Emulator) inBand(hz int64) bool {
	for _, b := range e.bands {
		if hz >= b.MinHz && hz <= b.MaxHz {
			return true
		}
	}
	return false
}

// SetFrequency tunes the carrier.
func (e *Emulator) SetFrequency(ctx context.Context, hz int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetFrequency); err != nil {
		return err
	}
	if !e.inBand(hz) {
		return fmt.Errorf("%w: frequency %d Hz is outside the synthesizer bands", adapter.ErrInvalidRange, hz)
	}
	e.frequency = hz
	e.log.WithField("hz", hz).Debug("frequency set")
	return nil
}

// SetMaxPower selects the highest PA level.
func (e *Emulator) SetMaxPower(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetMaxPower); err != nil {
		return err
	}
	e.maxPower = true
	return nil
}

// SetModulation selects the modulation format.
func (e *Emulator) SetModulation(ctx context.Context, mode adapter.Modulation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetModulation); err != nil {
		return err
	}
	if mode != adapter.ModulationASKOOK {
		return fmt.Errorf("%w: unsupported modulation %v", adapter.ErrInvalidRange, mode)
	}
	e.modulation = mode
	return nil
}

// SetDataRate sets the symbol rate.
func (e *Emulator) SetDataRate(ctx context.Context, baud int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetDataRate); err != nil {
		return err
	}
	if baud < MinBaud || baud > MaxBaud {
		return fmt.Errorf("%w: data rate %d outside [%d, %d]", adapter.ErrInvalidRange, baud, MinBaud, MaxBaud)
	}
	e.baud = baud
	return nil
}

// SetFixedFrameLength configures fixed-length packets.
func (e *Emulator) SetFixedFrameLength(ctx context.Context, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetFixedFrameLength); err != nil {
		return err
	}
	if n < 1 || n > MaxFrameLen {
		return fmt.Errorf("%w: frame length %d outside [1, %d]", adapter.ErrInvalidRange, n, MaxFrameLen)
	}
	e.frameLen = n
	return nil
}

// SetSyncMode selects sync-word framing.
func (e *Emulator) SetSyncMode(ctx context.Context, mode adapter.SyncMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetSyncMode); err != nil {
		return err
	}
	if mode < 0 || mode > 7 {
		return fmt.Errorf("%w: sync mode %d", adapter.ErrInvalidRange, mode)
	}
	e.syncMode = mode
	return nil
}

// TransmitRaw emits one frame and decodes it with the receiver profile.
func (e *Emulator) TransmitRaw(ctx context.Context, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpTransmitRaw); err != nil {
		return err
	}
	if e.frequency == 0 || e.baud == 0 || e.modulation == 0 {
		return fmt.Errorf("%w: frequency, modulation and data rate must be set before transmitting", adapter.ErrNotConfigured)
	}
	if len(data) == 0 || (e.frameLen > 0 && len(data) != e.frameLen) {
		return fmt.Errorf("%w: frame of %d bytes, configured length %d", adapter.ErrInvalidRange, len(data), e.frameLen)
	}

	e.state = StateTX
	defer func() { e.state = StateIdle }()

	if e.realtime {
		airtime := time.Duration(len(data)*8) * time.Second / time.Duration(e.baud)
		timer := time.NewTimer(airtime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	e.frames++

	entry := e.log.WithFields(logrus.Fields{
		"frame": hex.EncodeToString(data),
		"n":     e.frames,
	})
	pkt, err := protocol.DecodeFrame(data, e.profile)
	if err != nil {
		entry.WithError(err).Warn("receiver ignored frame")
		return nil
	}
	e.received = append(e.received, pkt)
	entry.WithFields(logrus.Fields{
		"cmd": pkt.Command.String(),
		"sw8": pkt.SW8.String(),
		"sw9": pkt.SW9.String(),
	}).Info("receiver decoded frame")
	return nil
}

// SetIdle returns to idle.
func (e *Emulator) SetIdle(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(ctx, adapter.OpSetIdle); err != nil {
		return err
	}
	e.state = StateIdle
	return nil
}

// Cleanup closes the emulator.
func (e *Emulator) Cleanup() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateClosed {
		return fmt.Errorf("%w: cleanup called twice", adapter.ErrClosed)
	}
	e.state = StateClosed
	e.log.WithField("frames", e.frames).Debug("emulator closed")
	return nil
}

// Received returns the packets the receiver decoded, in order.
func (e *Emulator) Received() []protocol.Packet {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]protocol.Packet, len(e.received))
	copy(out, e.received)
	return out
}

// GetStatus returns a snapshot of the emulated transceiver.
func (e *Emulator) GetStatus() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		State:       e.state,
		FrequencyHz: e.frequency,
		Baud:        e.baud,
		FrameLen:    e.frameLen,
		Modulation:  e.modulation,
		SyncMode:    e.syncMode,
		MaxPower:    e.maxPower,
		Frames:      e.frames,
	}
}
