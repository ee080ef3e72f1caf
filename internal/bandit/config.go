package bandit

import (
	"errors"
	"fmt"

	"github.com/lox/montyhall/internal/monty"
)

// Config controls a single learning run.
type Config struct {
	Episodes int
	// Alpha is the step size of the moving-average update.
	Alpha float64
	// Epsilon is the probability of picking a uniformly random action.
	Epsilon float64
	// SnapshotEvery is the episode interval between win-rate evaluations.
	SnapshotEvery int
	// SnapshotRounds is the number of fresh rounds played per evaluation.
	SnapshotRounds int
	Mode           monty.Mode
	// Seed for the learner's generator when none is supplied (0 = time based).
	Seed int64
}

// DefaultConfig returns the parameters of the reference experiment.
func DefaultConfig() Config {
	return Config{
		Episodes:       5000,
		Alpha:          0.1,
		Epsilon:        0.1,
		SnapshotEvery:  100,
		SnapshotRounds: 100,
		Mode:           monty.Classic,
	}
}

// Validate ensures the run parameters are usable.
func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return errors.New("episodes must be > 0")
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0, 1], got %v", c.Alpha)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1], got %v", c.Epsilon)
	}
	if c.SnapshotEvery <= 0 {
		return errors.New("snapshot interval must be > 0")
	}
	if c.SnapshotRounds <= 0 {
		return errors.New("snapshot rounds must be > 0")
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %d", monty.ErrUnknownMode, c.Mode)
	}
	return nil
}

// Snapshots returns how many win-rate samples a run will record.
func (c Config) Snapshots() int {
	if c.SnapshotEvery <= 0 || c.Episodes <= 0 {
		return 0
	}
	return (c.Episodes + c.SnapshotEvery - 1) / c.SnapshotEvery
}
