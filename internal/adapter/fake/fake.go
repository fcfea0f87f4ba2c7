// Package fake provides a recording radio for driver and CLI tests.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/radio-control/minka/internal/adapter"
)

// Call records one invocation on the fake radio.
type Call struct {
	Op  string
	Arg interface{}
}

// failure injects an error on the nth call of an operation.
type failure struct {
	nth int
	err error
}

// FakeRadio implements adapter.Radio by recording every call.
type FakeRadio struct {
	adapter.AdapterBase

	mu          sync.Mutex
	calls       []Call
	counts      map[string]int
	transmitted [][]byte
	failures    map[string]failure
	closed      bool

	// Last applied configuration
	frequency  int64
	baud       int
	frameLen   int
	modulation adapter.Modulation
	syncMode   adapter.SyncMode
	maxPower   bool
}

// Compile-time assertion that FakeRadio implements adapter.Radio
var _ adapter.Radio = (*FakeRadio)(nil)

// NewFakeRadio creates a fake radio with no injected failures.
func NewFakeRadio() *FakeRadio {
	return &FakeRadio{
		AdapterBase: adapter.AdapterBase{
			Backend: "fake",
			Model:   "Fake-Radio-Test",
		},
		counts:   make(map[string]int),
		failures: make(map[string]failure),
	}
}

// SetErrorSimulation makes the nth (1-based) call of op fail with a
// simulated error.
func (f *FakeRadio) SetErrorSimulation(op string, nth int) {
	f.FailOn(op, nth, fmt.Errorf("simulated %s failure on call %d", op, nth))
}

// FailOn makes the nth (1-based) call of op return err.
func (f *FakeRadio) FailOn(op string, nth int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = failure{nth: nth, err: err}
}

// DisableErrorSimulation removes every injected failure.
func (f *FakeRadio) DisableErrorSimulation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[string]failure)
}

// record logs the call and returns the injected error, if any.
func (f *FakeRadio) record(ctx context.Context, op string, arg interface{}) error {
	f.calls = append(f.calls, Call{Op: op, Arg: arg})
	f.counts[op]++

	if err := ctx.Err(); err != nil {
		return err
	}
	if f.closed {
		return fmt.Errorf("%w: %s after cleanup", adapter.ErrClosed, op)
	}
	if fl, ok := f.failures[op]; ok && fl.nth == f.counts[op] {
		return fl.err
	}
	return nil
}

// SetFrequency records the carrier.
func (f *FakeRadio) SetFrequency(ctx context.Context, hz int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, adapter.OpSetFrequency, hz); err != nil {
		return err
	}
	f.frequency = hz
	return nil
}

// SetMaxPower records the power selection.
func (f *FakeRadio) SetMaxPower(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, adapter.OpSetMaxPower, nil); err != nil {
		return err
	}
	f.maxPower = true
	return nil
}

// SetModulation records the modulation.
func (f *FakeRadio) SetModulation(ctx context.Context, mode adapter.Modulation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, adapter.OpSetModulation, mode); err != nil {
		return err
	}
	f.modulation = mode
	return nil
}

// SetDataRate records the data rate.
func (f *FakeRadio) SetDataRate(ctx context.Context, baud int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, adapter.OpSetDataRate, baud); err != nil {
		return err
	}
	f.baud = baud
	return nil
}

// SetFixedFrameLength records the frame length.
func (f *FakeRadio) SetFixedFrameLength(ctx context.Context, n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, adapter.OpSetFixedFrameLength, n); err != nil {
		return err
	}
	f.frameLen = n
	return nil
}

// SetSyncMode records the sync mode.
func (f *FakeRadio) SetSyncMode(ctx context.Context, mode adapter.SyncMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, adapter.OpSetSyncMode, mode); err != nil {
		return err
	}
	f.syncMode = mode
	return nil
}

// TransmitRaw records a copy of data.
func (f *FakeRadio) TransmitRaw(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	frame := make([]byte, len(data))
	copy(frame, data)
	if err := f.record(ctx, adapter.OpTransmitRaw, frame); err != nil {
		return err
	}
	f.transmitted = append(f.transmitted, frame)
	return nil
}

// SetIdle records the idle request.
func (f *FakeRadio) SetIdle(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(ctx, adapter.OpSetIdle, nil)
}

// Cleanup records the release. Calls after the first fail with ErrClosed.
func (f *FakeRadio) Cleanup() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(context.Background(), adapter.OpCleanup, nil); err != nil {
		return err
	}
	f.closed = true
	return nil
}

// Helper methods for testing

// Calls returns every recorded call in order.
func (f *FakeRadio) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Ops returns the operation names of every recorded call in order.
func (f *FakeRadio) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.calls))
	for i, c := range f.calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was called, failed calls included.
func (f *FakeRadio) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op]
}

// Transmitted returns copies of the frames successfully transmitted.
func (f *FakeRadio) Transmitted() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.transmitted))
	for i, p := range f.transmitted {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

// Settings returns the last applied configuration.
func (f *FakeRadio) Settings() (hz int64, baud, frameLen int, mode adapter.Modulation, sync adapter.SyncMode, maxPower bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frequency, f.baud, f.frameLen, f.modulation, f.syncMode, f.maxPower
}

// Closed reports whether Cleanup succeeded.
func (f *FakeRadio) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
