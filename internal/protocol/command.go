package protocol

// Command is a logical fan remote button. The zero value is not a command.
type Command uint8

const (
	Off Command = iota + 1
	Slow
	Medium
	Fast
	Light
	Light1
	Light2
)

// Code returns the 4-bit command word sent after the switch settings.
func (c Command) Code() Nibble {
	switch c {
	case Off:
		return 0b1010 // 110 010 110 010
	case Slow:
		return 0b0010 // 010 010 110 010
	case Medium:
		return 0b0100 // 010 110 010 010
	case Fast:
		return 0b1000 // 110 010 010 010
	case Light, Light1:
		return 0b0101 // 010 110 010 110
	case Light2:
		return 0b1001 // 110 010 010 110
	}
	return 0
}

// Valid reports whether c is one of the defined commands.
func (c Command) Valid() bool {
	return c >= Off && c <= Light2
}

func (c Command) String() string {
	switch c {
	case Off:
		return "off"
	case Slow:
		return "slow"
	case Medium:
		return "medium"
	case Fast:
		return "fast"
	case Light:
		return "light"
	case Light1:
		return "light1"
	case Light2:
		return "light2"
	}
	return "unknown"
}
