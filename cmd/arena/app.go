package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/content"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

// App is the fully wired arena.
type App struct {
	Rules    battle.Rules
	Chars    gameserver.CharacterStore
	Hunts    *gameserver.HuntService
	Duels    *gameserver.DuelService
	Training *gameserver.TrainingService
	Logger   *zap.Logger
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging, "arena")
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func providePool(ctx context.Context, cfg config.Config) (*postgres.Pool, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, pool.Close, nil
}

func provideRedis(ctx context.Context, cfg config.Config) (*redis.Store, func(), error) {
	store, err := redis.NewStore(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return store, func() { _ = store.Close() }, nil
}

func provideClasses(cfg config.Config) (*ruleset.Registry, error) {
	return content.Classes(cfg.Content)
}

func provideSkills(cfg config.Config, classes *ruleset.Registry) (*skill.Catalog, error) {
	return content.Skills(cfg.Content, classes)
}

func provideSpawner(cfg config.Config, classes *ruleset.Registry) (*npc.Spawner, error) {
	return content.Spawner(cfg.Content, classes)
}

func provideScripts(cfg config.Config, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(scripting.DefaultInstructionLimit, logger)
	if cfg.Content.ScriptDir != "" {
		if err := mgr.LoadDir(cfg.Content.ScriptDir); err != nil {
			mgr.Close()
			return nil, nil, err
		}
		logger.Info("scripts loaded", zap.Strings("scopes", mgr.Scopes()))
	}
	return mgr, mgr.Close, nil
}

func provideRules(
	cfg config.Config,
	classes *ruleset.Registry,
	skills *skill.Catalog,
	spawner *npc.Spawner,
	scripts *scripting.Manager,
	logger *zap.Logger,
) (battle.Rules, error) {
	curve, err := progression.ParseCurve(cfg.Combat.ExpCurve)
	if err != nil {
		return battle.Rules{}, err
	}
	rules := battle.Rules{Classes: classes, Skills: skills, Spawner: spawner, Curve: curve}
	if cfg.Content.ScriptDir != "" {
		rules.Rewards = scripting.NewRewardHook(scripts, logger)
	}
	return rules, nil
}

func provideSources(cfg config.Config) gameserver.SourceFactory {
	return gameserver.NewSourceFactory(cfg.Combat.Seed)
}

func provideHunts(
	cfg config.Config,
	rules battle.Rules,
	chars gameserver.CharacterStore,
	sessions *battle.Registry,
	sources gameserver.SourceFactory,
	logger *zap.Logger,
) (*gameserver.HuntService, func()) {
	h := gameserver.NewHuntService(rules, chars, sessions, sources, cfg.Combat.IdleStrikeAfter, logger)
	return h, h.Close
}

func provideDuels(
	cfg config.Config,
	rules battle.Rules,
	chars gameserver.CharacterStore,
	board gameserver.Board,
	sources gameserver.SourceFactory,
	logger *zap.Logger,
) *gameserver.DuelService {
	return gameserver.NewDuelService(rules.Classes, chars, board, cfg.Combat.PvPRoundCap,
		cfg.Combat.PvPCooldown, sources, nil, logger)
}

func provideTraining(
	rules battle.Rules,
	chars gameserver.CharacterStore,
	sessions *battle.Registry,
	logger *zap.Logger,
) *gameserver.TrainingService {
	return gameserver.NewTrainingService(rules.Classes, rules.Skills, chars, sessions, logger)
}
