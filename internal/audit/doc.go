// Package audit records every transmission as one JSON line.
//
// Entries carry the command, switch settings, receiver profile, the frame as
// hex, how many of the repeated transmissions were attempted, the outcome
// code and the latency. The file is append-only and rotated by size.
package audit
