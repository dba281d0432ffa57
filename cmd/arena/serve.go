package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/frontend/handlers"
	"github.com/cory-johannsen/arena/internal/frontend/telnet"
	"github.com/cory-johannsen/arena/internal/server"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the telnet arena server" }
func (*serveCmd) Usage() string {
	return `serve:
  Accept telnet players on telnet.host:telnet.port until interrupted.
  When redis.ladder_sync is set the honor ladder is periodically rebuilt
  from the database.
`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return withConfigApp(ctx, args, func(ctx context.Context, cfg config.Config, app *App) error {
		return serve(ctx, cfg, app)
	})
}

// serve runs the telnet front end and background jobs until ctx is done.
func serve(ctx context.Context, cfg config.Config, app *App) error {
	render := renderer(app)
	render.Color = true
	handler := handlers.NewArenaHandler(app.Chars, app.Hunts, app.Training, app.Duels,
		app.Rules.Spawner, render, app.Logger.Named("lobby"))
	app.Hunts.OnIdleStrike = handler.DeliverIdleStrike

	lc := server.NewLifecycle(app.Logger)
	lc.Add("telnet", telnet.NewAcceptor(cfg.Telnet, handler, app.Logger.Named("telnet")))
	if cfg.Redis.LadderSync > 0 {
		lc.Add("ladder-sync", server.Every(cfg.Redis.LadderSync, app.Logger, func(ctx context.Context) error {
			_, err := app.Duels.RebuildLadder(ctx)
			return err
		}))
	}

	app.Logger.Info("arena serving",
		zap.String("addr", cfg.Telnet.Addr()),
		zap.Duration("ladder_sync", cfg.Redis.LadderSync),
	)
	return lc.Run(ctx)
}
