package transmit

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/radio-control/minka/internal/adapter"
	"github.com/radio-control/minka/internal/audit"
	"github.com/radio-control/minka/internal/protocol"
)

// Link parameters expected by the receiver.
const (
	DataRate = 2400
	Repeats  = 8
)

// AuditLogger writes one record per Send.
type AuditLogger interface {
	LogTransmission(ctx context.Context, e audit.Entry)
}

// Compile-time assertion that audit.Logger implements AuditLogger
var _ AuditLogger = (*audit.Logger)(nil)

// Options configures a Driver.
type Options struct {
	// Profile selects the carrier when FrequencyHz is zero. Defaults to
	// protocol.ProfileDual.
	Profile protocol.Profile

	// FrequencyHz overrides the profile carrier.
	FrequencyHz int64

	// MaxPower raises the transmitter to its maximum level.
	MaxPower bool

	Logger logrus.FieldLogger
	Audit  AuditLogger
}

// Driver owns a radio for a single Send.
type Driver struct {
	radio adapter.Radio
	opts  Options
	log   logrus.FieldLogger
}

// NewDriver creates a driver for r. The driver releases r at the end of Send.
func NewDriver(r adapter.Radio, opts Options) *Driver {
	if opts.Profile == 0 {
		opts.Profile = protocol.ProfileDual
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Driver{radio: r, opts: opts, log: log}
}

// FrequencyHz returns the carrier Send will use.
func (d *Driver) FrequencyHz() int64 {
	if d.opts.FrequencyHz != 0 {
		return d.opts.FrequencyHz
	}
	return d.opts.Profile.FrequencyHz()
}

// Send configures the radio, transmits p's frame Repeats times, then idles and
// releases the radio. An invalid packet is rejected before the radio is
// touched, and in that case the radio is left as it was.
//
// Configuration failures wrap adapter.ErrRadioConfiguration and transmission
// failures wrap adapter.ErrTransmit with the attempt number. Idle and cleanup
// failures are joined onto the result.
func (d *Driver) Send(ctx context.Context, p protocol.Packet) (err error) {
	if !p.Command.Valid() {
		return fmt.Errorf("%w: command %d", protocol.ErrInvalidCommand, p.Command)
	}
	if p.SW8 > 0xF || p.SW9 > 0xF {
		return fmt.Errorf("%w: SW8=%d SW9=%d", protocol.ErrInvalidSwitch, p.SW8, p.SW9)
	}

	start := time.Now()
	frame := p.Frame()
	log := d.log.WithField("cmd", p.Command.String())
	log.WithFields(logrus.Fields{
		"symbols": p.Symbols(),
		"frame":   hex.EncodeToString(frame),
	}).Debug("encoded packet")

	attempts := 0
	defer func() {
		err = errors.Join(err, d.release(ctx, log))
		d.logAudit(ctx, p, frame, attempts, err, time.Since(start))
	}()

	if err := d.configure(ctx); err != nil {
		log.WithError(err).Error("radio configuration failed")
		return err
	}

	for attempts < Repeats {
		attempts++
		if err := d.radio.TransmitRaw(ctx, frame); err != nil {
			err = adapter.NormalizeRadioError(adapter.OpTransmitRaw, attempts, err)
			log.WithError(err).WithField("attempt", attempts).Error("transmission failed")
			return err
		}
		log.WithField("attempt", attempts).Debug("frame sent")
	}

	log.WithField("repeats", Repeats).Info("command sent")
	return nil
}

// configure applies the link settings in order, stopping at the first failure.
func (d *Driver) configure(ctx context.Context) error {
	steps := []struct {
		op string
		fn func() error
	}{
		{adapter.OpSetFrequency, func() error { return d.radio.SetFrequency(ctx, d.FrequencyHz()) }},
		{adapter.OpSetMaxPower, func() error {
			if !d.opts.MaxPower {
				return nil
			}
			return d.radio.SetMaxPower(ctx)
		}},
		{adapter.OpSetModulation, func() error { return d.radio.SetModulation(ctx, adapter.ModulationASKOOK) }},
		{adapter.OpSetDataRate, func() error { return d.radio.SetDataRate(ctx, DataRate) }},
		{adapter.OpSetFixedFrameLength, func() error { return d.radio.SetFixedFrameLength(ctx, protocol.FrameLen) }},
		{adapter.OpSetSyncMode, func() error { return d.radio.SetSyncMode(ctx, adapter.SyncNone) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return adapter.NormalizeRadioError(s.op, 0, err)
		}
	}
	return nil
}

// release idles the radio and cleans it up. Cleanup runs even when idle
// fails. Cancellation of ctx does not stop the release.
func (d *Driver) release(ctx context.Context, log logrus.FieldLogger) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	if err := d.radio.SetIdle(ctx); err != nil {
		errs = append(errs, adapter.NormalizeRadioError(adapter.OpSetIdle, 0, err))
	}
	if err := d.radio.Cleanup(); err != nil {
		errs = append(errs, adapter.NormalizeRadioError(adapter.OpCleanup, 0, err))
	}
	err := errors.Join(errs...)
	if err != nil {
		log.WithError(err).Warn("radio release failed")
	}
	return err
}

func (d *Driver) logAudit(ctx context.Context, p protocol.Packet, frame []byte, attempts int, err error, latency time.Duration) {
	if d.opts.Audit == nil {
		return
	}
	e := audit.Entry{
		Command:     p.Command.String(),
		SW8:         p.SW8.String(),
		SW9:         p.SW9.String(),
		Profile:     d.opts.Profile.String(),
		FrequencyHz: d.FrequencyHz(),
		Frame:       hex.EncodeToString(frame),
		Attempts:    attempts,
		Code:        adapter.CodeOf(err),
		LatencyMs:   latency.Milliseconds(),
	}
	if b, ok := d.radio.(interface{ GetBackend() string }); ok {
		e.Backend = b.GetBackend()
	}
	if err != nil {
		e.Error = err.Error()
	}
	d.opts.Audit.LogTransmission(ctx, e)
}
