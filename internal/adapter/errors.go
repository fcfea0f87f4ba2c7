package adapter

import (
	"errors"
	"fmt"
)

// Normalized radio error codes.
var (
	ErrRadioConfiguration = errors.New("RADIO_CONFIGURATION")
	ErrTransmit           = errors.New("TRANSMIT")
	ErrRelease            = errors.New("RELEASE")
)

// Backend conditions. Backends return these (possibly wrapped); the driver
// normalizes them under one of the codes above.
var (
	ErrInvalidRange  = errors.New("INVALID_RANGE")
	ErrNotConfigured = errors.New("NOT_CONFIGURED")
	ErrClosed        = errors.New("CLOSED")
	ErrTimeout       = errors.New("TIMEOUT")
)

// Radio operation names.
const (
	OpSetFrequency        = "setFrequency"
	OpSetMaxPower         = "setMaxPower"
	OpSetModulation       = "setModulation"
	OpSetDataRate         = "setDataRate"
	OpSetFixedFrameLength = "setFixedFrameLength"
	OpSetSyncMode         = "setSyncMode"
	OpTransmitRaw         = "transmitRaw"
	OpSetIdle             = "setIdle"
	OpCleanup             = "cleanup"
)

// opCodes maps each radio operation to the code its failures normalize to.
// Unknown operations map to ErrRadioConfiguration.
var opCodes = map[string]error{
	OpSetFrequency:        ErrRadioConfiguration,
	OpSetMaxPower:         ErrRadioConfiguration,
	OpSetModulation:       ErrRadioConfiguration,
	OpSetDataRate:         ErrRadioConfiguration,
	OpSetFixedFrameLength: ErrRadioConfiguration,
	OpSetSyncMode:         ErrRadioConfiguration,
	OpTransmitRaw:         ErrTransmit,
	OpSetIdle:             ErrRelease,
	OpCleanup:             ErrRelease,
}

// RadioError wraps a backend error with the operation that produced it.
type RadioError struct {
	Code    error  // Normalized code
	Op      string // Radio operation
	Attempt int    // 1-based transmission attempt, 0 when not a transmission
	Err     error  // Backend error
}

func (e *RadioError) Error() string {
	if e.Attempt > 0 {
		return fmt.Sprintf("%v: %s attempt %d: %v", e.Code, e.Op, e.Attempt, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", e.Code, e.Op, e.Err)
}

// Unwrap exposes both the normalized code and the backend error to errors.Is.
func (e *RadioError) Unwrap() []error {
	return []error{e.Code, e.Err}
}

// NormalizeRadioError wraps err from op in a RadioError. attempt is the
// 1-based transmission number for OpTransmitRaw and 0 otherwise.
func NormalizeRadioError(op string, attempt int, err error) error {
	if err == nil {
		return nil
	}
	code, ok := opCodes[op]
	if !ok {
		code = ErrRadioConfiguration
	}
	return &RadioError{Code: code, Op: op, Attempt: attempt, Err: err}
}

// CodeOf returns the short code string for err, for audit records.
func CodeOf(err error) string {
	switch {
	case err == nil:
		return "SUCCESS"
	case errors.Is(err, ErrTransmit):
		return ErrTransmit.Error()
	case errors.Is(err, ErrRadioConfiguration):
		return ErrRadioConfiguration.Error()
	case errors.Is(err, ErrRelease):
		return ErrRelease.Error()
	}
	return "ERROR"
}
