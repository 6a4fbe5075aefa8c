package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/lox/rangepoker/internal/game"
	"github.com/lox/rangepoker/internal/simulator"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" help:"Path to HCL config file" default:"rangepoker.hcl" type:"path"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play Range Poker in the terminal"`
	Eval     EvalCmd          `cmd:"" help:"Evaluate the best five-card hand among some cards"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with a fixed drafting policy"`
	Serve    ServeCmd         `cmd:"" help:"Run the websocket game server"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rangepoker"),
		kong.Description("Draft a five-card poker hand against an eight-card dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":       version,
			"easy_policies": strings.Join(simulator.PolicyNames(game.Easy), ", "),
			"hard_policies": strings.Join(simulator.PolicyNames(game.Hard), ", "),
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
