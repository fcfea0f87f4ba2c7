package protocol

import "fmt"

// DecodeFrame recovers the packet carried by a 10-byte frame, resolving the
// command word against profile.
func DecodeFrame(frame []byte, profile Profile) (Packet, error) {
	if len(frame) != FrameLen {
		return Packet{}, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(frame), FrameLen)
	}
	for i, b := range frame[:SpacerLen] {
		if b != 0 {
			return Packet{}, fmt.Errorf("%w: byte %d is 0x%02x", ErrSpacer, i, b)
		}
	}
	return DecodePayload(frame[SpacerLen:], profile)
}

// DecodePayload recovers the packet from the 5 packed payload bytes.
func DecodePayload(payload []byte, profile Profile) (Packet, error) {
	if len(payload) != PayloadLen {
		return Packet{}, fmt.Errorf("%w: got %d payload bytes, want %d", ErrFrameLength, len(payload), PayloadLen)
	}
	bits := unpackBits(payload)
	for i := PacketBits; i < PaddedBits; i++ {
		if bits[i] != '0' {
			return Packet{}, ErrPadding
		}
	}
	if bits[:SymbolLen] != Preamble {
		return Packet{}, fmt.Errorf("%w: got %q", ErrPreamble, bits[:SymbolLen])
	}

	var words [3]Nibble
	off := SymbolLen
	for i := range words {
		n, err := decodeNibble(bits[off : off+NibbleSymbols])
		if err != nil {
			return Packet{}, err
		}
		words[i] = n
		off += NibbleSymbols
	}

	cmd, ok := profile.Identify(words[2])
	if !ok {
		return Packet{}, fmt.Errorf("%w: command word %s not in %s profile", ErrInvalidCommand, words[2], profile)
	}
	return Packet{SW8: words[0], SW9: words[1], Command: cmd}, nil
}
