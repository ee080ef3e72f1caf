package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lox/montyhall/internal/monty"
	"github.com/lox/montyhall/internal/simulator"
)

// SimulateCmd estimates the win rate of always playing one action
type SimulateCmd struct {
	Mode     string `default:"classic" enum:"classic,evil" help:"Host mode: classic, evil"`
	Action   string `default:"switch" enum:"stay,switch" help:"Action to play every round: stay, switch"`
	Rounds   int    `default:"100000" help:"Number of rounds to simulate"`
	Workers  int    `default:"4" help:"Parallel workers"`
	Seed     int64  `default:"0" help:"RNG seed (0 for random)"`
	LogLevel string `default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.LogLevel)
	ctx, cancel := setupSignalHandler(logger)
	defer cancel()
	return c.execute(ctx, os.Stdout, logger)
}

func (c *SimulateCmd) execute(ctx context.Context, out io.Writer, logger *log.Logger) error {
	mode, err := monty.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	action, err := monty.ParseAction(c.Action)
	if err != nil {
		return err
	}

	cfg := simulator.Config{
		Rounds:  c.Rounds,
		Action:  action,
		Mode:    mode,
		Seed:    c.Seed,
		Workers: c.Workers,
		Logger:  logger.WithPrefix("simulator"),
	}
	stats, err := simulator.New(cfg).Run(ctx)
	if err != nil {
		return err
	}
	simulator.PrintSummary(out, stats, cfg)
	return nil
}
