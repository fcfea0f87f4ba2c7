// Package adapter defines the transceiver contract the transmission driver
// drives, and the error codes radio failures are normalized to.
//
// A backend implements Radio for a concrete device (CC1101 over SPI, the
// in-process emulator, the recording fake). The driver only ever sees this
// interface. Backends report raw device errors; the driver wraps them in a
// RadioError carrying ErrRadioConfiguration, ErrTransmit or ErrRelease.
package adapter
