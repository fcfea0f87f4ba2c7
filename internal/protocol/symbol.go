package protocol

import (
	"fmt"
	"strings"
)

// Bit is one logical bit of a switch setting or command word.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

// Ternary pulse symbols.
const (
	SymbolZero = "010"
	SymbolOne  = "110"
	SymbolLen  = 3
)

// EncodeBit returns the ternary symbol for b. Only the low bit of b is
// significant.
func EncodeBit(b Bit) string {
	if b&1 == 1 {
		return SymbolOne
	}
	return SymbolZero
}

// decodeSymbol maps a 3-character symbol back to its logical bit.
func decodeSymbol(s string) (Bit, bool) {
	switch s {
	case SymbolZero:
		return Zero, true
	case SymbolOne:
		return One, true
	}
	return 0, false
}

// Nibble is a 4-bit logical value, transmitted most significant bit first.
// Only the low four bits are significant.
type Nibble uint8

// NibbleSymbols is the width of a nibble in raw symbol characters.
const NibbleSymbols = 4 * SymbolLen

// Bit returns bit i, counting from the most significant (i == 0).
func (n Nibble) Bit(i int) Bit {
	return Bit(n>>(3-uint(i))) & 1
}

// Symbols returns the 12-character ternary encoding of n.
func (n Nibble) Symbols() string {
	var b strings.Builder
	b.Grow(NibbleSymbols)
	for i := 0; i < 4; i++ {
		b.WriteString(EncodeBit(n.Bit(i)))
	}
	return b.String()
}

// String returns the 4-digit logical form, e.g. "0011".
func (n Nibble) String() string {
	return fmt.Sprintf("%04b", uint8(n)&0x0f)
}

// ParseNibble accepts either the 4-digit logical form ("0011") or the
// 12-character symbol form ("010010110110").
func ParseNibble(s string) (Nibble, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 4:
		var n Nibble
		for _, c := range s {
			switch c {
			case '0':
				n <<= 1
			case '1':
				n = n<<1 | 1
			default:
				return 0, fmt.Errorf("%w: %q is not a binary digit string", ErrSymbol, s)
			}
		}
		return n, nil
	case NibbleSymbols:
		return decodeNibble(s)
	}
	return 0, fmt.Errorf("%w: %q must be 4 bits or 12 symbol characters", ErrSymbol, s)
}

// ParseSwitch parses a jumper setting override.
func ParseSwitch(s string) (Nibble, error) {
	n, err := ParseNibble(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSwitch, err)
	}
	return n, nil
}

// decodeNibble decodes four consecutive symbols.
func decodeNibble(s string) (Nibble, error) {
	var n Nibble
	for i := 0; i < NibbleSymbols; i += SymbolLen {
		b, ok := decodeSymbol(s[i : i+SymbolLen])
		if !ok {
			return 0, fmt.Errorf("%w: %q at offset %d", ErrSymbol, s[i:i+SymbolLen], i)
		}
		n = n<<1 | Nibble(b)
	}
	return n, nil
}
