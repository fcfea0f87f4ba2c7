package protocol

import "strings"

// Packet geometry.
const (
	// Preamble is the fixed leading symbol (logical 0).
	Preamble = SymbolZero

	PacketSymbols = 13
	PacketBits    = PacketSymbols * SymbolLen // 39

	// PaddedBits is PacketBits rounded up to a whole byte with zero bits.
	PaddedBits = 40
	PayloadLen = PaddedBits / 8
)

// Default jumper settings of the remote's battery compartment.
const (
	DefaultSW8 Nibble = 0b0000 // 010 010 010 010
	DefaultSW9 Nibble = 0b0011 // 010 010 110 110
)

// Packet is one command addressed to a receiver by its switch settings.
type Packet struct {
	SW8     Nibble
	SW9     Nibble
	Command Command
}

// NewPacket builds a packet.
func NewPacket(sw8, sw9 Nibble, cmd Command) Packet {
	return Packet{SW8: sw8, SW9: sw9, Command: cmd}
}

// Symbols returns the 39-character symbol string
// Preamble || SW8 || SW9 || Command.
func (p Packet) Symbols() string {
	var b strings.Builder
	b.Grow(PacketBits)
	b.WriteString(Preamble)
	b.WriteString(p.SW8.Symbols())
	b.WriteString(p.SW9.Symbols())
	b.WriteString(p.Command.Code().Symbols())
	return b.String()
}

// Bits returns the symbol string padded with one trailing zero to 40 bits.
func (p Packet) Bits() string {
	return p.Symbols() + strings.Repeat("0", PaddedBits-PacketBits)
}

// Payload packs Bits into 5 bytes, most significant bit first.
func (p Packet) Payload() []byte {
	return packBits(p.Bits())
}

// packBits packs a string of '0'/'1' of length multiple of 8.
func packBits(bits string) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for _, c := range bits[i*8 : i*8+8] {
			v <<= 1
			if c == '1' {
				v |= 1
			}
		}
		out[i] = v
	}
	return out
}

// unpackBits is the inverse of packBits.
func unpackBits(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 8)
	for _, v := range data {
		for i := 7; i >= 0; i-- {
			if v>>uint(i)&1 == 1 {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}
