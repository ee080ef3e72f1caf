package simulator

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/montyhall/internal/monty"
	"github.com/lox/montyhall/internal/randutil"
	"github.com/lox/montyhall/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Action  monty.Action
	Mode    monty.Mode
	Seed    int64
	Workers int
	Logger  *log.Logger
}

// Simulator plays many independent rounds with a fixed action
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	config.Seed = randutil.Resolve(config.Seed)
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run executes the simulation and returns the merged statistics
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be > 0, got %d", s.config.Rounds)
	}
	if !s.config.Mode.Valid() {
		return nil, fmt.Errorf("%w: %d", monty.ErrUnknownMode, s.config.Mode)
	}
	if s.config.Action != monty.Stay && s.config.Action != monty.Switch {
		return nil, fmt.Errorf("invalid action %d", s.config.Action)
	}

	workers := s.config.Workers
	if workers > s.config.Rounds {
		workers = s.config.Rounds
	}
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	// Worker seeds come from one master generator so a seed pins the whole run
	master := randutil.New(s.config.Seed)
	results := make([]statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		rng := randutil.Split(master)
		stats := &results[w]

		g.Go(func() error {
			return s.playRounds(ctx, rng, rounds, stats)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for i := range results {
		total.Merge(&results[i])
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.config.Logger.Info("Simulation complete",
		"mode", s.config.Mode,
		"action", s.config.Action,
		"rounds", total.Rounds,
		"win_rate", total.Mean(),
		"workers", workers)
	return total, nil
}

// playRounds checks for cancellation every 1024 rounds
func (s *Simulator) playRounds(ctx context.Context, rng *rand.Rand, rounds int, stats *statistics.Statistics) error {
	for i := 0; i < rounds; i++ {
		if i&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		stats.Add(monty.PlayRound(rng, s.config.Action, s.config.Mode))
	}
	return nil
}

// Theoretical returns the exact win probability of always playing action
func Theoretical(action monty.Action, mode monty.Mode) float64 {
	switch {
	case action == monty.Stay:
		return 1.0 / 3
	case mode == monty.Classic:
		return 2.0 / 3
	default:
		// Evil hosts only honour a switch away from the car
		return 0
	}
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds int, action monty.Action, mode monty.Mode, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds:  rounds,
		Action:  action,
		Mode:    mode,
		Seed:    seed,
		Workers: 1,
		Logger:  logger,
	}).Run(ctx)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, config Config) {
	low, high := stats.ConfidenceInterval95()
	wLow, wHigh := stats.WilsonInterval95()
	expected := Theoretical(config.Action, config.Mode)

	fmt.Fprintf(w, "\n=== %s: always %s ===\n", config.Mode.Label(), config.Action)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Wins: %d  Losses: %d\n", stats.Wins, stats.Losses())
	if stats.Overridden > 0 {
		fmt.Fprintf(w, "Switch refused by host: %d rounds (%.1f%%)\n",
			stats.Overridden, float64(stats.Overridden)/float64(stats.Rounds)*100)
	}

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Win rate: %.4f\n", stats.Mean())
	fmt.Fprintf(w, "Std Error: %.4f\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI (normal): [%.4f, %.4f]\n", low, high)
	fmt.Fprintf(w, "95%% CI (Wilson): [%.4f, %.4f]\n", wLow, wHigh)
	fmt.Fprintf(w, "Theoretical: %.4f (%s)\n", expected, verdict(expected, wLow, wHigh))
}

func verdict(expected, low, high float64) string {
	if expected >= low && expected <= high {
		return "within interval"
	}
	return "outside interval"
}
