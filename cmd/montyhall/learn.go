package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/montyhall/internal/bandit"
	"github.com/lox/montyhall/internal/config"
	"github.com/lox/montyhall/internal/randutil"
	"github.com/lox/montyhall/internal/report"
	"github.com/lox/montyhall/internal/tui"
	"golang.org/x/sync/errgroup"
)

// LearnCmd runs every configured learning run and reports the results
type LearnCmd struct {
	Config   string `default:"montyhall.hcl" type:"path" help:"Experiment file (defaults apply when it does not exist)"`
	Seed     int64  `help:"Base RNG seed; run i uses seed+i (0 keeps per-run seeds)"`
	Episodes int    `help:"Override the episode count of every run"`
	Chart    string `help:"Chart output path (overrides the experiment file)"`
	NoChart  bool   `help:"Do not write the HTML chart"`
	NoColor  bool   `help:"Disable coloured output"`
	Watch    bool   `short:"w" help:"Show live progress while learning"`
	LogLevel string `default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
}

func (c *LearnCmd) Run() error {
	logger := setupLogger(c.LogLevel)
	ctx, cancel := setupSignalHandler(logger)
	defer cancel()
	return c.execute(ctx, os.Stdout, logger)
}

// plannedRun pairs a configured run with its learner
type plannedRun struct {
	name    string
	learner *bandit.Learner
}

func (c *LearnCmd) execute(ctx context.Context, out io.Writer, logger *log.Logger) error {
	exp, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Episodes > 0 {
		for i := range exp.Runs {
			exp.Runs[i].Episodes = c.Episodes
		}
	}
	if err := exp.Validate(); err != nil {
		return fmt.Errorf("invalid experiment %s: %w", c.Config, err)
	}

	runs, err := c.plan(exp, logger)
	if err != nil {
		return err
	}

	var results []*bandit.Result
	if c.Watch {
		results, err = watchRuns(ctx, runs, logger)
	} else {
		results, err = learnAll(ctx, runs, nil)
	}
	if err != nil {
		return err
	}

	for _, res := range results {
		fmt.Fprintln(out, report.FormatEstimates(res))
	}
	fmt.Fprintln(out)

	sinks := report.MultiSink{report.NewTerminalSink(out, c.NoColor)}
	chartPath := exp.ChartPath()
	if c.Chart != "" {
		chartPath = c.Chart
	}
	if c.NoChart {
		chartPath = ""
	}
	if chartPath != "" {
		sinks = append(sinks, report.NewChartSink(chartPath))
	}
	if err := report.Publish(sinks, results...); err != nil {
		return err
	}
	if chartPath != "" {
		logger.Info("Chart written", "path", chartPath)
	}
	return nil
}

func (c *LearnCmd) plan(exp *config.Experiment, logger *log.Logger) ([]plannedRun, error) {
	runs := make([]plannedRun, 0, len(exp.Runs))
	for i, rc := range exp.Runs {
		cfg, err := rc.Learner()
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", rc.Name, err)
		}

		opts := []bandit.Option{bandit.WithLogger(logger.With("run", rc.Name))}
		if c.Seed != 0 {
			opts = append(opts, bandit.WithRand(randutil.New(c.Seed+int64(i))))
		}
		l, err := bandit.NewLearner(cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", rc.Name, err)
		}
		runs = append(runs, plannedRun{name: rc.Name, learner: l})
	}
	return runs, nil
}

// learnAll runs every learner concurrently; each owns its generator so the
// results do not depend on scheduling. progress may be nil.
func learnAll(ctx context.Context, runs []plannedRun, progress func(int, bandit.Progress)) ([]*bandit.Result, error) {
	results := make([]*bandit.Result, len(runs))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range runs {
		g.Go(func() error {
			var onProgress func(bandit.Progress)
			if progress != nil {
				onProgress = func(p bandit.Progress) { progress(i, p) }
			}
			res, err := r.learner.Run(ctx, onProgress)
			if err != nil {
				return fmt.Errorf("run %s: %w", r.name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// watchRuns drives the live view while the learners run
func watchRuns(ctx context.Context, runs []plannedRun, logger *log.Logger) ([]*bandit.Result, error) {
	views := make([]tui.Run, len(runs))
	for i, r := range runs {
		cfg := r.learner.Config()
		views[i] = tui.Run{Name: r.name, Mode: cfg.Mode, Episodes: cfg.Episodes}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(logger, views)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	type outcome struct {
		results []*bandit.Result
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := learnAll(ctx, runs, func(i int, pr bandit.Progress) {
			p.Send(tui.ProgressMsg{Index: i, Progress: pr})
		})
		for i := range runs {
			var res *bandit.Result
			if results != nil {
				res = results[i]
			}
			p.Send(tui.DoneMsg{Index: i, Result: res, Err: err})
		}
		done <- outcome{results: results, err: err}
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("live view: %w", err)
	}
	if model.Quitting() {
		cancel()
	}
	o := <-done
	return o.results, o.err
}
