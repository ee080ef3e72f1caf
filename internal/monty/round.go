package monty

import "fmt"

// Source is the random draw a round needs. *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Round records everything that happened in a single game.
type Round struct {
	Mode          Mode
	Requested     Action // action the caller asked for
	Action        Action // action actually played
	Car           int
	Initial       int
	Revealed      int
	Final         int
	SwitchOffered bool
	Win           bool
}

// Outcome returns 1 for a win and 0 for a loss.
func (r Round) Outcome() int {
	if r.Win {
		return 1
	}
	return 0
}

// Overridden reports whether the host refused the requested action.
func (r Round) Overridden() bool {
	return r.Requested != r.Action
}

// Play runs a round and returns only the outcome (1 win, 0 loss).
func Play(src Source, action Action, mode Mode) int {
	return PlayRound(src, action, mode).Outcome()
}

// PlayRound plays one game. The car position is drawn first, then the
// contestant's initial pick. Classic hosts draw once more when both remaining
// doors hide goats; evil hosts never draw.
//
// PlayRound panics on an invalid action or mode.
func PlayRound(src Source, action Action, mode Mode) Round {
	if action != Stay && action != Switch {
		panic(fmt.Sprintf("monty: invalid action %d", action))
	}

	r := Round{
		Mode:          mode,
		Requested:     action,
		Action:        action,
		Car:           src.IntN(Doors),
		Initial:       src.IntN(Doors),
		SwitchOffered: true,
	}
	remaining := otherDoors(r.Initial)

	switch mode {
	case Classic:
		switch r.Car {
		case remaining[0]:
			r.Revealed = remaining[1]
		case remaining[1]:
			r.Revealed = remaining[0]
		default:
			r.Revealed = remaining[src.IntN(len(remaining))]
		}
	case Evil:
		r.Revealed = firstGoat(remaining, r.Car)
		if r.Initial != r.Car {
			r.SwitchOffered = false
			r.Action = Stay
		}
	default:
		panic(fmt.Sprintf("monty: invalid mode %d", mode))
	}

	if r.Action == Stay {
		r.Final = r.Initial
	} else {
		r.Final = remainingDoor(r.Initial, r.Revealed)
	}
	r.Win = r.Final == r.Car
	return r
}

// otherDoors returns the two doors other than pick, in ascending order.
func otherDoors(pick int) [2]int {
	var out [2]int
	n := 0
	for d := 0; d < Doors; d++ {
		if d != pick {
			out[n] = d
			n++
		}
	}
	return out
}

// remainingDoor returns the only door that is neither a nor b.
func remainingDoor(a, b int) int {
	for d := 0; d < Doors; d++ {
		if d != a && d != b {
			return d
		}
	}
	panic(fmt.Sprintf("monty: no door left besides %d and %d", a, b))
}

func firstGoat(doors [2]int, car int) int {
	for _, d := range doors {
		if d != car {
			return d
		}
	}
	// Unreachable: two distinct doors cannot both hide the car.
	panic("monty: no goat door available")
}
