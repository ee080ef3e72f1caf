// Package monty simulates single rounds of the Monty Hall game under the
// classic and evil host behaviours.
package monty

import (
	"errors"
	"fmt"
	"strings"
)

// Doors is the number of doors on stage.
const Doors = 3

// ErrUnknownMode is returned when a host mode name cannot be parsed.
var ErrUnknownMode = errors.New("unknown host mode")

// Action is the contestant's decision once the host has opened a door.
type Action uint8

const (
	Stay Action = iota
	Switch
)

// Actions lists every action in index order.
var Actions = [...]Action{Stay, Switch}

func (a Action) String() string {
	switch a {
	case Stay:
		return "stay"
	case Switch:
		return "switch"
	default:
		return "unknown"
	}
}

// ParseAction converts "stay"/"switch" (or "0"/"1") into an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stay", "0":
		return Stay, nil
	case "switch", "1":
		return Switch, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Mode selects how the host picks the door to open and whether a switch is
// offered.
type Mode uint8

const (
	// Classic hosts always reveal a goat and always offer the switch.
	Classic Mode = iota
	// Evil hosts only let the contestant switch when they already hold the car.
	Evil
)

func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case Evil:
		return "evil"
	default:
		return "unknown"
	}
}

// Label is the human readable name used in reports.
func (m Mode) Label() string {
	switch m {
	case Classic:
		return "Classic Monty"
	case Evil:
		return "Evil Monty"
	default:
		return "Unknown Monty"
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == Classic || m == Evil
}

// ParseMode converts a mode name into a Mode. Anything other than "classic"
// or "evil" is rejected rather than defaulted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic":
		return Classic, nil
	case "evil":
		return Evil, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
