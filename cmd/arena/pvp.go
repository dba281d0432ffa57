package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/content"
	"github.com/cory-johannsen/arena/internal/frontend/handlers"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/observability"
)

type duelCmd struct {
	verbose bool
}

func (*duelCmd) Name() string     { return "duel" }
func (*duelCmd) Synopsis() string { return "challenge another character to a PvP battle" }
func (*duelCmd) Usage() string {
	return `duel [-v] <challenger> <defender>:
  Simulate a duel at full vitals and record honor for both sides.
`
}

func (d *duelCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&d.verbose, "v", false, "print the full battle log")
}

func (d *duelCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, args, func(ctx context.Context, app *App) error {
		challenger, err := lookup(ctx, app, f.Arg(0))
		if err != nil {
			return err
		}
		defender, err := lookup(ctx, app, f.Arg(1))
		if err != nil {
			return err
		}
		report, err := app.Duels.Duel(ctx, challenger.ID, defender.ID)
		if err != nil {
			return err
		}
		renderer(app).Duel(os.Stdout, report, d.verbose)
		return nil
	})
}

type sparCmd struct {
	file    string
	verbose bool
}

func (*sparCmd) Name() string     { return "spar" }
func (*sparCmd) Synopsis() string { return "simulate a battle between two snapshots without saving" }
func (*sparCmd) Usage() string {
	return `spar -file <snapshots.yaml> [-v] <id> <id>:
  Simulate a battle between two combatant snapshots from a YAML file.
  Missing attributes, level, and vitals take their defaults. No database
  or redis connection is needed.
`
}

func (s *sparCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.file, "file", "", "YAML list of combatant snapshots")
	f.BoolVar(&s.verbose, "v", false, "print the full battle log")
}

func (s *sparCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if s.file == "" || f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	logger, cleanup, err := provideLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	out, err := spar(cfg.Combat, cfg.Content, s.file, f.Arg(0), f.Arg(1), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	var r handlers.Renderer
	if s.verbose {
		r.Outcome(os.Stdout, out)
	}
	r.Verdict(os.Stdout, out.WinnerID, out.LoserID, out)
	return subcommands.ExitSuccess
}

// spar loads the snapshots in path and simulates a battle between the two
// named IDs, a as p1.
func spar(cc config.CombatConfig, tables config.ContentConfig, path, a, b string, logger *zap.Logger) (pvp.Outcome, error) {
	if a == b {
		return pvp.Outcome{}, gameserver.ErrSelfDuel
	}
	classes, err := content.Classes(tables)
	if err != nil {
		return pvp.Outcome{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pvp.Outcome{}, fmt.Errorf("reading snapshots: %w", err)
	}
	snaps, err := character.LoadSnapshots(data)
	if err != nil {
		return pvp.Outcome{}, err
	}
	byID := make(map[string]character.Snapshot, len(snaps))
	for _, s := range snaps {
		byID[s.ID] = s
	}
	p1, ok := byID[a]
	if !ok {
		return pvp.Outcome{}, fmt.Errorf("snapshot %q not found in %s", a, path)
	}
	p2, ok := byID[b]
	if !ok {
		return pvp.Outcome{}, fmt.Errorf("snapshot %q not found in %s", b, path)
	}
	duels := gameserver.NewDuelService(classes, nil, nil, cc.PvPRoundCap, 0, gameserver.NewSourceFactory(cc.Seed), nil,
		observability.ForBattle(logger, "spar", a+"-"+b))
	return duels.Spar(p1, p2), nil
}

type ladderCmd struct {
	n       int
	rebuild bool
}

func (*ladderCmd) Name() string     { return "ladder" }
func (*ladderCmd) Synopsis() string { return "show the honor ladder" }
func (*ladderCmd) Usage() string {
	return `ladder [-n <count>] [-rebuild]:
  Print the top characters by honor. -rebuild first reloads the ladder
  from the database.
`
}

func (l *ladderCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&l.n, "n", 10, "number of entries; 0 shows everyone")
	f.BoolVar(&l.rebuild, "rebuild", false, "rebuild the ladder from the database first")
}

func (l *ladderCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, args, func(ctx context.Context, app *App) error {
		if l.rebuild {
			n, err := app.Duels.RebuildLadder(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("ladder rebuilt with %d characters\n", n)
		}
		entries, err := app.Duels.Ladder(ctx, l.n)
		if err != nil {
			return err
		}
		renderer(app).Ladder(os.Stdout, entries)
		return nil
	})
}
