package gameserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

// oneCharacter serves a single character and records progress saves.
type oneCharacter struct {
	CharacterStore
	c     *character.Character
	saves int
}

func (s *oneCharacter) GetByID(context.Context, int64) (*character.Character, error) {
	return s.c, nil
}

func (s *oneCharacter) SaveProgress(context.Context, *character.Character) error {
	s.saves++
	return nil
}

func TestIdleStrike_DropsGenerationSupersededByRound(t *testing.T) {
	classes := ruleset.DefaultRegistry()
	rules := battle.Rules{
		Classes: classes,
		Skills:  skill.DefaultCatalog(),
		Spawner: npc.NewSpawner(npc.DefaultTemplates(), classes),
		Curve:   progression.CurveStandard,
	}
	hero, err := character.New("Hero", ruleset.Warrior, classes)
	require.NoError(t, err)
	hero.ID = 7
	store := &oneCharacter{c: hero}

	// The countdown never elapses on its own; ticks are delivered by hand.
	h := NewHuntService(rules, store, battle.NewRegistry(), NewSourceFactory(1), time.Hour, zap.NewNop())
	defer h.Close()
	var strikes int
	h.OnIdleStrike = func(int64, battle.RoundResult) { strikes++ }

	ctx := context.Background()
	_, err = h.Start(ctx, hero.ID, "goblin", 0)
	require.NoError(t, err)

	h.mu.Lock()
	fired := h.timers[hero.ID].Generation()
	h.mu.Unlock()

	// The tick fired, then the player's round took the lock first.
	_, err = h.Round(ctx, hero.ID, battle.Attack())
	require.NoError(t, err)
	savesAfterRound := store.saves

	h.idleStrike(hero.ID, fired)
	assert.Zero(t, strikes, "a tick superseded by a round must not strike")
	assert.Equal(t, savesAfterRound, store.saves)

	h.mu.Lock()
	current := h.timers[hero.ID].Generation()
	h.mu.Unlock()
	h.idleStrike(hero.ID, current)
	assert.Equal(t, 1, strikes)
}
