// Package gameserver glues the combat engine to persistence: PvE hunts,
// PvP duels with their ladder, and out-of-battle training.
package gameserver

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

var (
	// ErrInBattle is returned when a character already has an open hunt.
	ErrInBattle = errors.New("character is already in a battle")
	// ErrNoEncounter is returned when a hunt operation finds no open hunt.
	ErrNoEncounter = errors.New("no encounter in progress")
	// ErrSelfDuel is returned when a character challenges itself.
	ErrSelfDuel = errors.New("a character cannot duel itself")
)

// CharacterStore is the durable character record. It is satisfied by
// *postgres.CharacterRepository.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByID(ctx context.Context, id int64) (*character.Character, error)
	GetByName(ctx context.Context, name string) (*character.Character, error)
	List(ctx context.Context) ([]*character.Character, error)
	SaveVitals(ctx context.Context, id int64, health, mana int) error
	SaveProgress(ctx context.Context, c *character.Character) error
	SaveMastery(ctx context.Context, id int64, skillID string, mastery, gold int) error
	SaveDuel(ctx context.Context, winnerID int64, winner pvp.Stats, loserID int64, loser pvp.Stats) error
	ListHonor(ctx context.Context, limit int) ([]postgres.HonorEntry, error)
}

// Board is the honor leaderboard and PvP battle lock. It is satisfied by
// *redis.Store.
type Board interface {
	SetHonor(ctx context.Context, characterID int64, honor int) error
	Top(ctx context.Context, n int) ([]redis.Standing, error)
	Position(ctx context.Context, characterID int64) (int, error)
	Rebuild(ctx context.Context, entries []redis.HonorSource) error
	LockBattle(ctx context.Context, ids ...int64) (redis.Unlock, error)
}

var (
	_ CharacterStore = (*postgres.CharacterRepository)(nil)
	_ Board          = (*redis.Store)(nil)
)

// SourceFactory returns a fresh random source for one battle.
type SourceFactory func() dice.Source

// NewSourceFactory returns a factory of crypto sources when seed is 0.
// Otherwise the n-th battle draws from a source seeded with seed+n, so a
// whole run replays from one configured seed.
func NewSourceFactory(seed uint64) SourceFactory {
	if seed == 0 {
		return dice.NewCryptoSource
	}
	var n atomic.Uint64
	return func() dice.Source {
		return dice.NewSeededSource(seed + n.Add(1) - 1)
	}
}
