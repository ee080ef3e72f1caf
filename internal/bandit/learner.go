// Package bandit trains a single-state epsilon-greedy agent that learns
// whether staying or switching pays off against a given Monty Hall host.
package bandit

import (
	"context"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/montyhall/internal/monty"
	"github.com/lox/montyhall/internal/randutil"
)

// Progress is emitted after every win-rate snapshot.
type Progress struct {
	Mode      monty.Mode
	Episode   int // zero-based episode the snapshot was taken after
	Episodes  int
	Estimates Estimates
	Greedy    monty.Action
	WinRate   float64
	Elapsed   time.Duration
}

// Result is the outcome of a learning run.
type Result struct {
	Mode      monty.Mode
	Episodes  int
	Estimates Estimates
	// WinRates holds one evaluation per snapshot, in episode order.
	WinRates []float64
	// Counts is the number of times each action was played while learning.
	Counts   [2]int
	Duration time.Duration
}

// Option customises a Learner.
type Option func(*Learner)

// WithRand supplies the generator used for exploration and game draws.
func WithRand(rng *rand.Rand) Option {
	return func(l *Learner) { l.rng = rng }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Learner) { l.logger = logger }
}

// WithClock sets the clock used to time the run.
func WithClock(clock quartz.Clock) Option {
	return func(l *Learner) { l.clock = clock }
}

// Learner runs episodes against the game and keeps the value estimates.
// A Learner is not safe for concurrent use; run separate learners instead.
type Learner struct {
	cfg    Config
	rng    *rand.Rand
	logger *log.Logger
	clock  quartz.Clock
}

// NewLearner validates cfg and builds a learner.
func NewLearner(cfg Config, opts ...Option) (*Learner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Learner{cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}

	if l.rng == nil {
		l.rng = randutil.New(randutil.Resolve(cfg.Seed))
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	l.logger = l.logger.WithPrefix("bandit").With("mode", cfg.Mode)
	if l.clock == nil {
		l.clock = quartz.NewReal()
	}
	return l, nil
}

// Config returns the learner's configuration.
func (l *Learner) Config() Config {
	return l.cfg
}

// Run trains from fresh estimates. progress may be nil. Cancelling ctx stops
// the run between episodes and returns ctx.Err().
func (l *Learner) Run(ctx context.Context, progress func(Progress)) (*Result, error) {
	start := l.clock.Now()
	res := &Result{
		Mode:     l.cfg.Mode,
		Episodes: l.cfg.Episodes,
		WinRates: make([]float64, 0, l.cfg.Snapshots()),
	}

	for ep := 0; ep < l.cfg.Episodes; ep++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		action := l.selectAction(res.Estimates)
		reward := monty.Play(l.rng, action, l.cfg.Mode)
		res.Estimates.Update(action, float64(reward), l.cfg.Alpha)
		res.Counts[action]++

		if ep%l.cfg.SnapshotEvery != 0 {
			continue
		}

		greedy := res.Estimates.Greedy()
		rate := l.evaluate(greedy)
		res.WinRates = append(res.WinRates, rate)
		l.logger.Debug("Snapshot", "episode", ep, "greedy", greedy, "win_rate", rate, "estimates", res.Estimates)

		if progress != nil {
			progress(Progress{
				Mode:      l.cfg.Mode,
				Episode:   ep,
				Episodes:  l.cfg.Episodes,
				Estimates: res.Estimates,
				Greedy:    greedy,
				WinRate:   rate,
				Elapsed:   l.clock.Since(start),
			})
		}
	}

	res.Duration = l.clock.Since(start)
	l.logger.Info("Learning complete",
		"episodes", l.cfg.Episodes,
		"estimates", res.Estimates,
		"stay_plays", res.Counts[monty.Stay],
		"switch_plays", res.Counts[monty.Switch],
		"duration", res.Duration)
	return res, nil
}

// selectAction is the epsilon-greedy policy.
func (l *Learner) selectAction(est Estimates) monty.Action {
	if l.rng.Float64() < l.cfg.Epsilon {
		return monty.Actions[l.rng.IntN(len(monty.Actions))]
	}
	return est.Greedy()
}

// evaluate plays a fresh batch with a fixed action and returns the win
// fraction. It never touches the estimates.
func (l *Learner) evaluate(action monty.Action) float64 {
	wins := 0
	for i := 0; i < l.cfg.SnapshotRounds; i++ {
		wins += monty.Play(l.rng, action, l.cfg.Mode)
	}
	return float64(wins) / float64(l.cfg.SnapshotRounds)
}

// Learn runs the reference experiment (alpha 0.1, epsilon 0.1, a snapshot of
// 100 rounds every 100 episodes) with the given generator. It panics if mode
// is invalid or episodes is not positive.
func Learn(rng *rand.Rand, episodes int, mode monty.Mode) (Estimates, []float64) {
	cfg := DefaultConfig()
	cfg.Episodes = episodes
	cfg.Mode = mode

	l, err := NewLearner(cfg, WithRand(rng))
	if err != nil {
		panic(err)
	}
	res, err := l.Run(context.Background(), nil)
	if err != nil {
		panic(err)
	}
	return res.Estimates, res.WinRates
}
