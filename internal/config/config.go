// Package config loads experiment definitions from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/montyhall/internal/bandit"
	"github.com/lox/montyhall/internal/monty"
)

// DefaultChartPath is where the win-rate chart is written unless configured.
const DefaultChartPath = "charts/montyhall.html"

// Experiment is the complete experiment configuration
type Experiment struct {
	Output *OutputSettings `hcl:"output,block"`
	Runs   []RunConfig     `hcl:"run,block"`
}

// OutputSettings controls where results go
type OutputSettings struct {
	Chart   string `hcl:"chart,optional"`
	NoChart bool   `hcl:"no_chart,optional"`
}

// RunConfig defines a single learning run
type RunConfig struct {
	Name           string   `hcl:"name,label"`
	Mode           string   `hcl:"mode"`
	Episodes       int      `hcl:"episodes,optional"`
	Alpha          float64  `hcl:"alpha,optional"`
	Epsilon        *float64 `hcl:"epsilon,optional"`
	SnapshotEvery  int      `hcl:"snapshot_every,optional"`
	SnapshotRounds int      `hcl:"snapshot_rounds,optional"`
	Seed           int64    `hcl:"seed,optional"`
}

// Default returns the reference experiment: a classic run then an evil run
func Default() *Experiment {
	base := bandit.DefaultConfig()
	epsilon := base.Epsilon
	run := func(mode monty.Mode) RunConfig {
		return RunConfig{
			Name:           mode.String(),
			Mode:           mode.String(),
			Episodes:       base.Episodes,
			Alpha:          base.Alpha,
			Epsilon:        &epsilon,
			SnapshotEvery:  base.SnapshotEvery,
			SnapshotRounds: base.SnapshotRounds,
		}
	}
	return &Experiment{
		Output: &OutputSettings{Chart: DefaultChartPath},
		Runs:   []RunConfig{run(monty.Classic), run(monty.Evil)},
	}
}

// Load reads an experiment from an HCL file. A missing file yields Default().
func Load(filename string) (*Experiment, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults
func Parse(src []byte, filename string) (*Experiment, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var exp Experiment
	diags = gohcl.DecodeBody(file.Body, nil, &exp)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	exp.applyDefaults()
	return &exp, nil
}

func (e *Experiment) applyDefaults() {
	if e.Output == nil {
		e.Output = &OutputSettings{}
	}
	if e.Output.Chart == "" {
		e.Output.Chart = DefaultChartPath
	}

	base := bandit.DefaultConfig()
	for i := range e.Runs {
		r := &e.Runs[i]
		if r.Episodes == 0 {
			r.Episodes = base.Episodes
		}
		if r.Alpha == 0 {
			r.Alpha = base.Alpha
		}
		if r.Epsilon == nil {
			eps := base.Epsilon
			r.Epsilon = &eps
		}
		if r.SnapshotEvery == 0 {
			r.SnapshotEvery = base.SnapshotEvery
		}
		if r.SnapshotRounds == 0 {
			r.SnapshotRounds = base.SnapshotRounds
		}
	}
}

// Validate validates the experiment
func (e *Experiment) Validate() error {
	if len(e.Runs) == 0 {
		return fmt.Errorf("at least one run must be configured")
	}

	seen := make(map[string]bool, len(e.Runs))
	for _, r := range e.Runs {
		if seen[r.Name] {
			return fmt.Errorf("duplicate run %q", r.Name)
		}
		seen[r.Name] = true

		cfg, err := r.Learner()
		if err != nil {
			return fmt.Errorf("run %s: %w", r.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("run %s: %w", r.Name, err)
		}
	}
	return nil
}

// Learner converts the run into a learner configuration
func (r RunConfig) Learner() (bandit.Config, error) {
	mode, err := monty.ParseMode(r.Mode)
	if err != nil {
		return bandit.Config{}, err
	}
	epsilon := bandit.DefaultConfig().Epsilon
	if r.Epsilon != nil {
		epsilon = *r.Epsilon
	}
	return bandit.Config{
		Episodes:       r.Episodes,
		Alpha:          r.Alpha,
		Epsilon:        epsilon,
		SnapshotEvery:  r.SnapshotEvery,
		SnapshotRounds: r.SnapshotRounds,
		Mode:           mode,
		Seed:           r.Seed,
	}, nil
}

// ChartPath returns the chart output path, or "" when charts are disabled
func (e *Experiment) ChartPath() string {
	if e.Output == nil {
		return DefaultChartPath
	}
	if e.Output.NoChart {
		return ""
	}
	return e.Output.Chart
}
