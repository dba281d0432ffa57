// Package redis holds the arena's shared fast-path state: the honor
// leaderboard and the per-character battle locks that serialize PvP writes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/arena/internal/config"
)

// ErrBattleLocked is returned when a character is already in a PvP battle.
var ErrBattleLocked = errors.New("character is already in a battle")

// ErrNotRanked is returned when a character has no leaderboard entry.
var ErrNotRanked = errors.New("character is not ranked")

const (
	honorKey   = "honor"
	lockPrefix = "lock:battle:"
)

// releaseScript deletes a lock only while it still holds the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Store wraps a go-redis client.
type Store struct {
	client  *goredis.Client
	prefix  string
	lockTTL time.Duration
}

// NewStore connects to Redis and verifies the connection.
//
// Precondition: cfg.Addr must be non-empty; cfg.LockTTL > 0.
// Postcondition: Returns a connected Store or a non-nil error.
func NewStore(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return &Store{client: client, prefix: cfg.KeyPrefix, lockTTL: cfg.LockTTL}, nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += p
	}
	return k
}

func member(id int64) string { return strconv.FormatInt(id, 10) }

// Standing is one leaderboard row. Position is 1-based.
type Standing struct {
	Position    int
	CharacterID int64
	Honor       int
}

// SetHonor records a character's honor on the leaderboard.
func (s *Store) SetHonor(ctx context.Context, characterID int64, honor int) error {
	err := s.client.ZAdd(ctx, s.key(honorKey), goredis.Z{Score: float64(honor), Member: member(characterID)}).Err()
	if err != nil {
		return fmt.Errorf("setting honor for %d: %w", characterID, err)
	}
	return nil
}

// Top returns the n highest-honor standings. n <= 0 returns every entry.
func (s *Store) Top(ctx context.Context, n int) ([]Standing, error) {
	stop := int64(n - 1)
	if n <= 0 {
		stop = -1
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, s.key(honorKey), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	out := make([]Standing, 0, len(zs))
	for i, z := range zs {
		m, _ := z.Member.(string)
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, Standing{Position: i + 1, CharacterID: id, Honor: int(z.Score)})
	}
	return out, nil
}

// Position returns a character's 1-based leaderboard position.
//
// Postcondition: Returns ErrNotRanked when the character has no entry.
func (s *Store) Position(ctx context.Context, characterID int64) (int, error) {
	rank, err := s.client.ZRevRank(ctx, s.key(honorKey), member(characterID)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, ErrNotRanked
	}
	if err != nil {
		return 0, fmt.Errorf("reading position for %d: %w", characterID, err)
	}
	return int(rank) + 1, nil
}

// HonorSource is one character's honor as stored durably.
type HonorSource struct {
	CharacterID int64
	Honor       int
}

// Rebuild replaces the leaderboard with entries in one transaction.
func (s *Store) Rebuild(ctx context.Context, entries []HonorSource) error {
	key := s.key(honorKey)
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		for _, e := range entries {
			pipe.ZAdd(ctx, key, goredis.Z{Score: float64(e.Honor), Member: member(e.CharacterID)})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuilding leaderboard: %w", err)
	}
	return nil
}

// Unlock releases locks taken by LockBattle.
type Unlock func(ctx context.Context) error

// LockBattle takes the battle lock for every character in ids, in ascending
// id order. Locks expire after the configured TTL if never released.
//
// Postcondition: On ErrBattleLocked no lock from this call is held.
func (s *Store) LockBattle(ctx context.Context, ids ...int64) (Unlock, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	token := uuid.NewString()
	held := make([]string, 0, len(sorted))
	release := func(ctx context.Context) error {
		var errs []error
		for _, k := range held {
			if err := releaseScript.Run(ctx, s.client, []string{k}, token).Err(); err != nil {
				errs = append(errs, fmt.Errorf("releasing %s: %w", k, err))
			}
		}
		return errors.Join(errs...)
	}

	for _, id := range sorted {
		k := s.key(lockPrefix, member(id))
		ok, err := s.client.SetNX(ctx, k, token, s.lockTTL).Result()
		if err != nil {
			_ = release(ctx)
			return nil, fmt.Errorf("locking %d: %w", id, err)
		}
		if !ok {
			_ = release(ctx)
			return nil, fmt.Errorf("%w: %d", ErrBattleLocked, id)
		}
		held = append(held, k)
	}
	return release, nil
}
