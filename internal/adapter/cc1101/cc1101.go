// Package cc1101 drives a TI CC1101 sub-GHz transceiver over Linux SPI as an
// OOK transmitter.
package cc1101

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/radio-control/minka/internal/adapter"
)

// Band is an inclusive carrier range in Hz.
type Band struct {
	MinHz int64
	MaxHz int64
}

// Bands are the synthesizer ranges the chip can tune.
var Bands = []Band{
	{MinHz: 300_000_000, MaxHz: 348_000_000},
	{MinHz: 387_000_000, MaxHz: 464_000_000},
	{MinHz: 779_000_000, MaxHz: 928_000_000},
}

// Data rate limits for ASK/OOK.
const (
	MinBaud = 600
	MaxBaud = 250_000
)

// PA levels written to PATABLE[1].
const (
	DefaultPowerLevel byte = 0x60
	MaxPowerLevel     byte = 0xC0
)

// Bus is a full-duplex SPI transaction. spi.Conn satisfies it.
type Bus interface {
	Tx(w, r []byte) error
}

// Options configures the SPI connection and transmit behaviour.
type Options struct {
	// Port is the spireg port name. Empty selects the first port.
	Port string

	// SpeedHz is the SPI clock. Zero means 5 MHz.
	SpeedHz int64

	// TxTimeout bounds the wait for a frame to leave the FIFO.
	TxTimeout time.Duration

	// SettleDelay is waited after reset before the chip is probed.
	SettleDelay time.Duration

	Logger logrus.FieldLogger
}

// Radio implements adapter.Radio on a CC1101.
type Radio struct {
	adapter.AdapterBase

	mu        sync.Mutex
	bus       Bus
	closer    io.Closer
	log       logrus.FieldLogger
	txTimeout time.Duration
	poll      time.Duration
	mdmcfg2   byte
	pktLen    int
	closed    bool
}

// Compile-time assertion that Radio implements adapter.Radio
var _ adapter.Radio = (*Radio)(nil)

// Open initializes the host drivers, opens the SPI port and resets the chip.
func Open(opts Options) (*Radio, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(opts.Port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", opts.Port, err)
	}

	speed := opts.SpeedHz
	if speed == 0 {
		speed = 5_000_000
	}
	conn, err := port.Connect(physic.Frequency(speed)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect spi port %q: %w", opts.Port, err)
	}

	r, err := New(conn, port, opts)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return r, nil
}

// New resets and probes a CC1101 on bus. closer, if non-nil, is closed by
// Cleanup.
func New(bus Bus, closer io.Closer, opts Options) (*Radio, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := opts.TxTimeout
	if timeout == 0 {
		timeout = 500 * time.Millisecond
	}

	r := &Radio{
		AdapterBase: adapter.AdapterBase{
			Backend: "cc1101",
			Model:   "CC1101",
		},
		bus:       bus,
		closer:    closer,
		log:       log.WithField("radio", "cc1101"),
		txTimeout: timeout,
		poll:      time.Millisecond,
		mdmcfg2:   modFormatOOK,
	}

	if err := r.strobe(strobeSRES); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	if opts.SettleDelay > 0 {
		time.Sleep(opts.SettleDelay)
	}

	part, err := r.readStatus(regPARTNUM)
	if err != nil {
		return nil, fmt.Errorf("read PARTNUM: %w", err)
	}
	version, err := r.readStatus(regVERSION)
	if err != nil {
		return nil, fmt.Errorf("read VERSION: %w", err)
	}
	if version == 0x00 || version == 0xFF {
		return nil, fmt.Errorf("no CC1101 detected (PARTNUM=0x%02x VERSION=0x%02x)", part, version)
	}
	r.Model = fmt.Sprintf("CC1101 v0x%02x", version)

	for _, reg := range baseConfig {
		if err := r.writeReg(reg.addr, reg.value); err != nil {
			return nil, fmt.Errorf("write register 0x%02x: %w", reg.addr, err)
		}
	}
	if err := r.writeReg(regMDMCFG2, r.mdmcfg2); err != nil {
		return nil, err
	}
	if err := r.writeBurst(regPATABLE, []byte{0x00, DefaultPowerLevel}); err != nil {
		return nil, fmt.Errorf("write PATABLE: %w", err)
	}

	r.log.WithField("model", r.Model).Debug("transceiver ready")
	return r, nil
}

// SPI primitives. Callers hold r.mu or own r exclusively.

func (r *Radio) strobe(cmd byte) error {
	return r.bus.Tx([]byte{cmd}, make([]byte, 1))
}

func (r *Radio) writeReg(addr, value byte) error {
	return r.bus.Tx([]byte{addr, value}, make([]byte, 2))
}

func (r *Radio) writeBurst(addr byte, data []byte) error {
	w := append([]byte{addr | flagBurst}, data...)
	return r.bus.Tx(w, make([]byte, len(w)))
}

func (r *Radio) readStatus(addr byte) (byte, error) {
	rb := make([]byte, 2)
	if err := r.bus.Tx([]byte{addr | flagRead | flagBurst, 0x00}, rb); err != nil {
		return 0, err
	}
	return rb[1], nil
}

// guard rejects calls on a cancelled context or a released radio.
func (r *Radio) guard(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.closed {
		return fmt.Errorf("%w: %s after cleanup", adapter.ErrClosed, op)
	}
	return nil
}

// FrequencyWord returns the 24-bit FREQ register value for hz.
func FrequencyWord(hz int64) uint32 {
	return uint32(math.Round(float64(hz) * (1 << 16) / fxoscHz))
}

// DataRate returns the MDMCFG4 exponent and MDMCFG3 mantissa closest to baud.
func DataRate(baud int) (exponent, mantissa byte) {
	e := int(math.Floor(math.Log2(float64(baud) * (1 << 20) / fxoscHz)))
	m := int(math.Round(float64(baud)*(1<<28)/(fxoscHz*math.Pow(2, float64(e))))) - 256
	if m >= 256 {
		m = 0
		e++
	}
	return byte(e), byte(m)
}

func inBand(hz int64) bool {
	for _, b := range Bands {
		if hz >= b.MinHz && hz <= b.MaxHz {
			return true
		}
	}
	return false
}

// SetFrequency programs FREQ2..FREQ0.
func (r *Radio) SetFrequency(ctx context.Context, hz int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetFrequency); err != nil {
		return err
	}
	if !inBand(hz) {
		return fmt.Errorf("%w: frequency %d Hz is outside the synthesizer bands", adapter.ErrInvalidRange, hz)
	}
	w := FrequencyWord(hz)
	r.log.WithField("hz", hz).Debugf("FREQ=0x%06x", w)
	return r.writeBurst(regFREQ2, []byte{byte(w >> 16), byte(w >> 8), byte(w)})
}

// SetMaxPower writes the maximum PA level to PATABLE[1].
func (r *Radio) SetMaxPower(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetMaxPower); err != nil {
		return err
	}
	return r.writeBurst(regPATABLE, []byte{0x00, MaxPowerLevel})
}

// SetModulation sets MDMCFG2.MOD_FORMAT.
func (r *Radio) SetModulation(ctx context.Context, mode adapter.Modulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetModulation); err != nil {
		return err
	}
	if mode != adapter.ModulationASKOOK {
		return fmt.Errorf("%w: unsupported modulation %v", adapter.ErrInvalidRange, mode)
	}
	r.mdmcfg2 = r.mdmcfg2&^modFormatMask | modFormatOOK
	return r.writeReg(regMDMCFG2, r.mdmcfg2)
}

// SetDataRate programs DRATE_E and DRATE_M.
func (r *Radio) SetDataRate(ctx context.Context, baud int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetDataRate); err != nil {
		return err
	}
	if baud < MinBaud || baud > MaxBaud {
		return fmt.Errorf("%w: data rate %d outside [%d, %d]", adapter.ErrInvalidRange, baud, MinBaud, MaxBaud)
	}
	e, m := DataRate(baud)
	if err := r.writeReg(regMDMCFG4, 0xC0|e); err != nil {
		return err
	}
	return r.writeReg(regMDMCFG3, m)
}

// SetFixedFrameLength selects fixed packet length mode with PKTLEN=n. The
// frame must fit the TX FIFO.
func (r *Radio) SetFixedFrameLength(ctx context.Context, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetFixedFrameLength); err != nil {
		return err
	}
	if n < 1 || n > fifoSize {
		return fmt.Errorf("%w: frame length %d outside [1, %d]", adapter.ErrInvalidRange, n, fifoSize)
	}
	if err := r.writeReg(regPKTCTRL0, 0x00); err != nil {
		return err
	}
	if err := r.writeReg(regPKTLEN, byte(n)); err != nil {
		return err
	}
	r.pktLen = n
	return nil
}

// SetSyncMode sets MDMCFG2.SYNC_MODE.
func (r *Radio) SetSyncMode(ctx context.Context, mode adapter.SyncMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetSyncMode); err != nil {
		return err
	}
	if mode < 0 || mode > syncModeMask {
		return fmt.Errorf("%w: sync mode %d", adapter.ErrInvalidRange, mode)
	}
	r.mdmcfg2 = r.mdmcfg2&^syncModeMask | byte(mode)
	return r.writeReg(regMDMCFG2, r.mdmcfg2)
}

// TransmitRaw loads data into the TX FIFO, strobes STX and waits for the
// state machine to return to IDLE.
func (r *Radio) TransmitRaw(ctx context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpTransmitRaw); err != nil {
		return err
	}
	if len(data) == 0 || len(data) > fifoSize || (r.pktLen > 0 && len(data) != r.pktLen) {
		return fmt.Errorf("%w: frame of %d bytes, PKTLEN %d", adapter.ErrInvalidRange, len(data), r.pktLen)
	}

	for _, s := range []byte{strobeSIDLE, strobeSFTX} {
		if err := r.strobe(s); err != nil {
			return err
		}
	}
	if err := r.writeBurst(regFIFO, data); err != nil {
		return fmt.Errorf("load TX FIFO: %w", err)
	}
	if err := r.strobe(strobeSTX); err != nil {
		return err
	}
	return r.waitIdle(ctx)
}

// waitIdle polls MARCSTATE until the frame has been sent.
func (r *Radio) waitIdle(ctx context.Context) error {
	deadline := time.Now().Add(r.txTimeout)
	for {
		state, err := r.readStatus(regMARCSTATE)
		if err != nil {
			return fmt.Errorf("read MARCSTATE: %w", err)
		}
		switch state & marcStateMask {
		case marcIdle:
			return nil
		case marcTXUnderflow:
			_ = r.strobe(strobeSFTX)
			return errors.New("TX FIFO underflow")
		}

		if time.Now().After(deadline) {
			_ = r.strobe(strobeSIDLE)
			return fmt.Errorf("%w: MARCSTATE 0x%02x after %v", adapter.ErrTimeout, state&marcStateMask, r.txTimeout)
		}
		select {
		case <-ctx.Done():
			_ = r.strobe(strobeSIDLE)
			return ctx.Err()
		case <-time.After(r.poll):
		}
	}
}

// SetIdle strobes SIDLE.
func (r *Radio) SetIdle(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(ctx, adapter.OpSetIdle); err != nil {
		return err
	}
	return r.strobe(strobeSIDLE)
}

// Cleanup releases the SPI port.
func (r *Radio) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("%w: cleanup called twice", adapter.ErrClosed)
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
