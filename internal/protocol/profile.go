package protocol

import (
	"fmt"
	"strings"
)

// Profile selects the receiver hardware revision. Revisions differ in their
// light buttons and in the carrier they are tuned to.
type Profile uint8

const (
	// ProfileSingle has one light toggle button.
	ProfileSingle Profile = iota + 1
	// ProfileDual has two independent light buttons (TR110A remote).
	ProfileDual
)

// Receiver carrier frequencies.
const (
	FrequencySingleHz int64 = 304_320_000
	FrequencyDualHz   int64 = 304_300_000
)

// entry binds a command-line name to a command.
type entry struct {
	name string
	cmd  Command
}

func (p Profile) table() []entry {
	switch p {
	case ProfileSingle:
		return []entry{
			{"off", Off},
			{"slow", Slow},
			{"medium", Medium},
			{"fast", Fast},
			{"light", Light},
		}
	case ProfileDual:
		return []entry{
			{"off", Off},
			{"slow", Slow},
			{"medium", Medium},
			{"fast", Fast},
			{"light", Light1},
			{"light1", Light1},
			{"light2", Light2},
		}
	}
	return nil
}

// ParseProfile resolves a profile name ("single" or "dual").
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single":
		return ProfileSingle, nil
	case "dual", "tr110a":
		return ProfileDual, nil
	}
	return 0, fmt.Errorf("%w: %q (want single or dual)", ErrInvalidProfile, name)
}

func (p Profile) String() string {
	switch p {
	case ProfileSingle:
		return "single"
	case ProfileDual:
		return "dual"
	}
	return "unknown"
}

// FrequencyHz returns the carrier the receiver revision listens on.
func (p Profile) FrequencyHz() int64 {
	if p == ProfileSingle {
		return FrequencySingleHz
	}
	return FrequencyDualHz
}

// Names lists the accepted command names in table order.
func (p Profile) Names() []string {
	t := p.table()
	names := make([]string, 0, len(t))
	for _, e := range t {
		names = append(names, e.name)
	}
	return names
}

// Lookup resolves a command name. Names are matched exactly.
func (p Profile) Lookup(name string) (Command, error) {
	for _, e := range p.table() {
		if e.name == name {
			return e.cmd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not one of %s", ErrInvalidCommand, name, strings.Join(p.Names(), ", "))
}

// Identify maps a received command word back to the profile's command.
func (p Profile) Identify(code Nibble) (Command, bool) {
	for _, e := range p.table() {
		if e.cmd.Code() == code {
			return e.cmd, true
		}
	}
	return 0, false
}
