// Package transmit drives one command through a radio.
//
// A Driver configures the transceiver for the fan receiver (carrier, ASK/OOK,
// 2400 baud, fixed 10-byte frames, no sync word), sends the frame a fixed
// number of times back to back and always returns the radio to idle and
// releases it, whatever happened before. There is no acknowledgment channel.
package transmit
