package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/frontend/handlers"
	"github.com/cory-johannsen/arena/internal/game/character"
)

// loadConfig reads the configuration path passed to subcommands.Execute.
func loadConfig(args []interface{}) (config.Config, error) {
	path := ""
	if len(args) > 0 {
		if p, ok := args[0].(string); ok {
			path = p
		}
	}
	return config.Load(path)
}

// withApp wires the application, runs fn, and tears everything down.
// Errors are reported on stderr.
func withApp(ctx context.Context, args []interface{}, fn func(ctx context.Context, app *App) error) subcommands.ExitStatus {
	return withConfigApp(ctx, args, func(ctx context.Context, _ config.Config, app *App) error {
		return fn(ctx, app)
	})
}

// withConfigApp is withApp for commands that also need the loaded
// configuration.
func withConfigApp(ctx context.Context, args []interface{}, fn func(ctx context.Context, cfg config.Config, app *App) error) subcommands.ExitStatus {
	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	start := time.Now()
	app, cleanup, err := initApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "starting arena: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()
	app.Logger.Debug("arena wired", zap.Duration("elapsed", time.Since(start)))

	if err := fn(ctx, cfg, app); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// lookup resolves a character by name.
func lookup(ctx context.Context, app *App, name string) (*character.Character, error) {
	if name == "" {
		return nil, errors.New("a character name is required")
	}
	return app.Chars.GetByName(ctx, name)
}

// renderer returns a plain-text renderer over the wired rules.
func renderer(app *App) handlers.Renderer {
	return handlers.Renderer{Classes: app.Rules.Classes, Curve: app.Rules.Curve}
}
