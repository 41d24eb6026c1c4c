package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Console ConsoleCmd       `cmd:"" default:"withargs" help:"Track rolls in a console loop"`
	Form    FormCmd          `cmd:"" help:"Track rolls in a full-screen form"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("dicetracker"),
		kong.Description("Track two-dice sums against their theoretical probabilities"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
