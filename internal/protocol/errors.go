package protocol

import "errors"

var (
	// ErrInvalidCommand indicates a command name outside the receiver profile.
	ErrInvalidCommand = errors.New("INVALID_COMMAND")

	// ErrInvalidSwitch indicates a malformed SW8/SW9 setting.
	ErrInvalidSwitch = errors.New("INVALID_SWITCH")

	// ErrInvalidProfile indicates an unknown receiver profile name.
	ErrInvalidProfile = errors.New("INVALID_PROFILE")
)

// Frame decoding errors.
var (
	ErrFrameLength = errors.New("unexpected frame length")
	ErrSpacer      = errors.New("spacer bytes are not zero")
	ErrPadding     = errors.New("trailing pad bit is not zero")
	ErrPreamble    = errors.New("missing preamble symbol")
	ErrSymbol      = errors.New("invalid ternary symbol")
)
