package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/subcommands"

	"github.com/cory-johannsen/arena/internal/frontend/handlers"
	"github.com/cory-johannsen/arena/internal/game/battle"
)

type huntCmd struct {
	in      io.Reader
	monster string
	level   int
	list    bool
}

func (*huntCmd) Name() string     { return "hunt" }
func (*huntCmd) Synopsis() string { return "fight monsters interactively" }
func (*huntCmd) Usage() string {
	return `hunt [-monster <id>] [-level <n>] [-list] <name>:
  Open an encounter and read commands from stdin:
` + handlers.HuntHelp + "\n"
}

func (h *huntCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&h.monster, "monster", "", "monster template ID; empty picks the weakest")
	f.IntVar(&h.level, "level", 0, "monster level; 0 uses the template level")
	f.BoolVar(&h.list, "list", false, "list monster templates and exit")
}

func (h *huntCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if !h.list && f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, args, func(ctx context.Context, app *App) error {
		r := renderer(app)
		out := &lockedWriter{w: os.Stdout}
		if h.list {
			r.Monsters(out, app.Rules.Spawner)
			return nil
		}

		ch, err := lookup(ctx, app, f.Arg(0))
		if err != nil {
			return err
		}
		monster := h.monster
		if monster == "" {
			ids := app.Rules.Spawner.IDs()
			if len(ids) == 0 {
				return errors.New("no monster templates loaded")
			}
			monster = ids[0]
		}

		app.Hunts.OnIdleStrike = func(characterID int64, res battle.RoundResult) {
			if characterID == ch.ID {
				fmt.Fprintln(out, "\n-- you hesitate --")
				r.Round(out, res)
			}
		}
		view, err := app.Hunts.Start(ctx, ch.ID, monster, h.level)
		if err != nil {
			return err
		}
		r.View(out, view)
		return handlers.RunHunt(ctx, app.Hunts, ch.ID, handlers.NewLineReader(h.in), out, r)
	})
}

// lockedWriter serialises writes from the idle-strike goroutine and the
// command loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
