// Package adaptertest provides backend-agnostic conformance testing for
// adapter.Radio implementations.
package adaptertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/radio-control/minka/internal/adapter"
	"github.com/radio-control/minka/internal/protocol"
)

// Capabilities defines what the backend under test is expected to accept.
type Capabilities struct {
	// Name is used in the report header.
	Name string

	// FrequencyHz is a carrier the backend must accept.
	FrequencyHz int64

	// InvalidFrequenciesHz must be rejected with adapter.ErrInvalidRange.
	// Leave empty for backends that do not validate.
	InvalidFrequenciesHz []int64

	// RejectsFrameMismatch is set when TransmitRaw must refuse data whose
	// length differs from the configured fixed frame length.
	RejectsFrameMismatch bool
}

// ConformanceResult represents the result of a conformance test.
type ConformanceResult struct {
	TestName string
	Passed   bool
	Error    string
	Duration time.Duration
	Details  map[string]interface{}
}

// ConformanceReport represents the complete conformance test report.
type ConformanceReport struct {
	AdapterName   string
	TotalTests    int
	PassedTests   int
	FailedTests   int
	Results       []ConformanceResult
	OverallPassed bool
	Duration      time.Duration
}

// RunConformance runs the complete conformance suite. newRadio must return a
// fresh, unconfigured radio on every call.
func RunConformance(t *testing.T, newRadio func() adapter.Radio, caps Capabilities) {
	startTime := time.Now()

	name := caps.Name
	if name == "" {
		name = "Unknown Adapter"
	}
	report := &ConformanceReport{
		AdapterName:   name,
		Results:       []ConformanceResult{},
		OverallPassed: true,
	}

	runConfigureTests(newRadio, caps, report)
	runTransmitTests(newRadio, caps, report)
	runReleaseTests(newRadio, caps, report)
	runRangeTests(newRadio, caps, report)
	runCancellationTests(newRadio, caps, report)

	report.Duration = time.Since(startTime)
	printConformanceReport(t, report)

	if !report.OverallPassed {
		t.Fatalf("Adapter conformance test failed: %d/%d tests passed", report.PassedTests, report.TotalTests)
	}
}

// configure applies the Minka transmit configuration.
func configure(ctx context.Context, r adapter.Radio, caps Capabilities) error {
	steps := []struct {
		op string
		fn func() error
	}{
		{adapter.OpSetFrequency, func() error { return r.SetFrequency(ctx, caps.FrequencyHz) }},
		{adapter.OpSetModulation, func() error { return r.SetModulation(ctx, adapter.ModulationASKOOK) }},
		{adapter.OpSetDataRate, func() error { return r.SetDataRate(ctx, 2400) }},
		{adapter.OpSetFixedFrameLength, func() error { return r.SetFixedFrameLength(ctx, protocol.FrameLen) }},
		{adapter.OpSetSyncMode, func() error { return r.SetSyncMode(ctx, adapter.SyncNone) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.op, err)
		}
	}
	return nil
}

// check runs fn as one named conformance test.
func check(report *ConformanceReport, name string, fn func(details map[string]interface{}) error) {
	result := ConformanceResult{
		TestName: name,
		Details:  make(map[string]interface{}),
	}
	start := time.Now()
	err := fn(result.Details)
	result.Duration = time.Since(start)

	if err != nil {
		result.Passed = false
		result.Error = err.Error()
	} else {
		result.Passed = true
	}
	report.addResult(result)
}

func testFrame() []byte {
	return protocol.NewPacket(protocol.DefaultSW8, protocol.DefaultSW9, protocol.Off).Frame()
}

// runConfigureTests checks the configuration setters.
func runConfigureTests(newRadio func() adapter.Radio, caps Capabilities, report *ConformanceReport) {
	check(report, "Configure_Basic", func(d map[string]interface{}) error {
		r := newRadio()
		defer r.Cleanup()
		d["frequencyHz"] = caps.FrequencyHz
		return configure(context.Background(), r, caps)
	})

	check(report, "Configure_MaxPower", func(d map[string]interface{}) error {
		r := newRadio()
		defer r.Cleanup()
		ctx := context.Background()
		if err := r.SetMaxPower(ctx); err != nil {
			return fmt.Errorf("SetMaxPower failed: %v", err)
		}
		return configure(ctx, r, caps)
	})

	check(report, "Configure_Idempotent", func(d map[string]interface{}) error {
		r := newRadio()
		defer r.Cleanup()
		ctx := context.Background()
		for i := 0; i < 2; i++ {
			if err := configure(ctx, r, caps); err != nil {
				return fmt.Errorf("pass %d: %v", i+1, err)
			}
		}
		return nil
	})
}

// runTransmitTests checks repeated raw transmission of a full frame.
func runTransmitTests(newRadio func() adapter.Radio, caps Capabilities, report *ConformanceReport) {
	check(report, "Transmit_Repeated", func(d map[string]interface{}) error {
		r := newRadio()
		defer r.Cleanup()
		ctx := context.Background()
		if err := configure(ctx, r, caps); err != nil {
			return err
		}
		frame := testFrame()
		for i := 1; i <= 8; i++ {
			if err := r.TransmitRaw(ctx, frame); err != nil {
				return fmt.Errorf("TransmitRaw attempt %d failed: %v", i, err)
			}
		}
		d["attempts"] = 8
		return nil
	})

	check(report, "Transmit_DoesNotRetainBuffer", func(d map[string]interface{}) error {
		r := newRadio()
		defer r.Cleanup()
		ctx := context.Background()
		if err := configure(ctx, r, caps); err != nil {
			return err
		}
		frame := testFrame()
		if err := r.TransmitRaw(ctx, frame); err != nil {
			return err
		}
		for i := range frame {
			frame[i] = 0xff
		}
		return nil
	})

	if caps.RejectsFrameMismatch {
		check(report, "Transmit_FrameLengthMismatch", func(d map[string]interface{}) error {
			r := newRadio()
			defer r.Cleanup()
			ctx := context.Background()
			if err := configure(ctx, r, caps); err != nil {
				return err
			}
			if err := r.TransmitRaw(ctx, testFrame()[:protocol.FrameLen-1]); err == nil {
				return errors.New("short frame should have been rejected")
			}
			return nil
		})
	}
}

// runReleaseTests checks idle and cleanup.
func runReleaseTests(newRadio func() adapter.Radio, caps Capabilities, report *ConformanceReport) {
	check(report, "Release_IdleThenCleanup", func(d map[string]interface{}) error {
		r := newRadio()
		ctx := context.Background()
		if err := configure(ctx, r, caps); err != nil {
			return err
		}
		if err := r.SetIdle(ctx); err != nil {
			return fmt.Errorf("SetIdle failed: %v", err)
		}
		if err := r.Cleanup(); err != nil {
			return fmt.Errorf("Cleanup failed: %v", err)
		}
		return nil
	})

	check(report, "Release_UnconfiguredCleanup", func(d map[string]interface{}) error {
		r := newRadio()
		if err := r.SetIdle(context.Background()); err != nil {
			return fmt.Errorf("SetIdle on fresh radio failed: %v", err)
		}
		return r.Cleanup()
	})

	check(report, "Release_TransmitAfterCleanup", func(d map[string]interface{}) error {
		r := newRadio()
		ctx := context.Background()
		if err := configure(ctx, r, caps); err != nil {
			return err
		}
		if err := r.Cleanup(); err != nil {
			return err
		}
		err := r.TransmitRaw(ctx, testFrame())
		if !errors.Is(err, adapter.ErrClosed) {
			return fmt.Errorf("TransmitRaw after Cleanup should return CLOSED, got: %v", err)
		}
		d["actualError"] = err.Error()
		return nil
	})
}

// runRangeTests checks frequency validation.
func runRangeTests(newRadio func() adapter.Radio, caps Capabilities, report *ConformanceReport) {
	for _, hz := range caps.InvalidFrequenciesHz {
		hz := hz
		check(report, fmt.Sprintf("SetFrequency_Invalid_%d", hz), func(d map[string]interface{}) error {
			r := newRadio()
			defer r.Cleanup()
			err := r.SetFrequency(context.Background(), hz)
			if !errors.Is(err, adapter.ErrInvalidRange) {
				return fmt.Errorf("SetFrequency(%d) should return INVALID_RANGE, got: %v", hz, err)
			}
			d["actualError"] = err.Error()
			return nil
		})
	}
}

// runCancellationTests checks that a cancelled context is honoured.
func runCancellationTests(newRadio func() adapter.Radio, caps Capabilities, report *ConformanceReport) {
	check(report, "Transmit_CancelledContext", func(d map[string]interface{}) error {
		r := newRadio()
		defer r.Cleanup()
		if err := configure(context.Background(), r, caps); err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := r.TransmitRaw(ctx, testFrame())
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("TransmitRaw with cancelled context should return context.Canceled, got: %v", err)
		}
		return nil
	})
}

func (r *ConformanceReport) addResult(result ConformanceResult) {
	r.TotalTests++
	if result.Passed {
		r.PassedTests++
	} else {
		r.FailedTests++
		r.OverallPassed = false
	}
	r.Results = append(r.Results, result)
}

func printConformanceReport(t *testing.T, report *ConformanceReport) {
	t.Logf("\n%s", strings.Repeat("=", 80))
	t.Logf("RADIO CONFORMANCE REPORT")
	t.Logf("%s", strings.Repeat("=", 80))
	t.Logf("Adapter: %s", report.AdapterName)
	t.Logf("Total Tests: %d", report.TotalTests)
	t.Logf("Passed: %d", report.PassedTests)
	t.Logf("Failed: %d", report.FailedTests)
	t.Logf("Overall: %s", map[bool]string{true: "PASS", false: "FAIL"}[report.OverallPassed])
	t.Logf("Duration: %v", report.Duration)
	t.Logf("%s", strings.Repeat("-", 80))

	t.Logf("%-34s %-8s %-12s %-s", "TEST NAME", "RESULT", "DURATION", "DETAILS")
	t.Logf("%s", strings.Repeat("-", 80))

	for _, result := range report.Results {
		status := "PASS"
		if !result.Passed {
			status = "FAIL"
		}

		details := result.Error
		if details == "" && len(result.Details) > 0 {
			var parts []string
			for k, v := range result.Details {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
			details = strings.Join(parts, ", ")
		}

		t.Logf("%-34s %-8s %-12s %-s", result.TestName, status, result.Duration.String(), details)
	}

	t.Logf("%s", strings.Repeat("=", 80))
}
