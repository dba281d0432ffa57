//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

var storageSet = wire.NewSet(
	providePool,
	postgres.NewCharacterRepository,
	wire.Bind(new(gameserver.CharacterStore), new(*postgres.CharacterRepository)),
	provideRedis,
	wire.Bind(new(gameserver.Board), new(*redis.Store)),
)

var rulesSet = wire.NewSet(
	provideClasses,
	provideSkills,
	provideSpawner,
	provideScripts,
	provideRules,
)

var serviceSet = wire.NewSet(
	battle.NewRegistry,
	provideSources,
	provideHunts,
	provideDuels,
	provideTraining,
)

func initApp(ctx context.Context, cfg config.Config) (*App, func(), error) {
	wire.Build(provideLogger, storageSet, rulesSet, serviceSet, wire.Struct(new(App), "*"))
	return nil, nil, nil
}
