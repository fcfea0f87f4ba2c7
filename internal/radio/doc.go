// Package radio opens the configured transceiver backend.
//
// The Manager keeps a table of backend openers keyed by name. The cc1101 and
// emulator backends are registered by default; tests register their own.
package radio
