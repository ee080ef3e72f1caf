package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Learn    LearnCmd         `cmd:"" default:"withargs" help:"Train stay/switch bandits against classic and evil hosts"`
	Simulate SimulateCmd      `cmd:"" help:"Estimate the win rate of a fixed action"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("montyhall"),
		kong.Description("Monty Hall simulator with an epsilon-greedy bandit learner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
