// Package main provides the arena command-line client: character creation,
// PvE hunting, PvP duels, training, the honor ladder, and the telnet server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/google/subcommands"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty uses defaults and ARENA_* environment variables")

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&createCmd{}, "characters")
	subcommands.Register(&showCmd{}, "characters")
	subcommands.Register(&trainCmd{}, "characters")
	subcommands.Register(&huntCmd{in: os.Stdin}, "battle")
	subcommands.Register(&duelCmd{}, "battle")
	subcommands.Register(&sparCmd{}, "battle")
	subcommands.Register(&ladderCmd{}, "pvp")
	subcommands.Register(&serveCmd{}, "server")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := subcommands.Execute(ctx, *configPath)
	stop()
	os.Exit(int(status))
}
