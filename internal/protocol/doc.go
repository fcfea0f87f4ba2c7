// Package protocol encodes Minka Aire ceiling-fan remote commands into the
// raw OOK bitstream the fan receiver listens for.
//
// Every logical bit is pulse-stretched into a 3-bit ternary symbol (0 => 010,
// 1 => 110). A packet is a fixed 13 symbols: one preamble symbol, four symbols
// each for the SW8 and SW9 jumper settings, and four for the command. The 39
// raw bits are padded with a single trailing zero and packed into 5 bytes,
// then prefixed with 5 zero spacer bytes to form the 10-byte radio frame.
package protocol
