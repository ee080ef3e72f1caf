package bandit

import (
	"fmt"

	"github.com/lox/montyhall/internal/monty"
)

// Estimates holds the learned value of each action, indexed by monty.Action.
type Estimates [2]float64

// Greedy returns the action with the strictly greater estimate. Ties go to
// Stay.
func (e Estimates) Greedy() monty.Action {
	if e[monty.Switch] > e[monty.Stay] {
		return monty.Switch
	}
	return monty.Stay
}

// Update moves the estimate for a towards reward by step alpha and returns
// the new value. The other action is untouched.
func (e *Estimates) Update(a monty.Action, reward, alpha float64) float64 {
	e[a] += alpha * (reward - e[a])
	return e[a]
}

func (e Estimates) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", e[monty.Stay], e[monty.Switch])
}
