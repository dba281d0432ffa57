package gameserver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

var duelNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func (e *env) duels() *gameserver.DuelService {
	return gameserver.NewDuelService(e.classes, e.store, e.board, pvp.DefaultRoundCap, 30*time.Second,
		zeroSources(), func() time.Time { return duelNow }, e.logger)
}

func TestDuel_ChallengerWinsMirrorMatch(t *testing.T) {
	e := newEnv(t)
	a := e.hero(t, "Alpha", "warrior")
	b := e.hero(t, "Bravo", "warrior")
	d := e.duels()
	ctx := context.Background()

	rep, err := d.Duel(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, rep.Winner.ID)
	assert.Equal(t, 25, rep.Honor.WinnerGain)
	assert.NotEmpty(t, rep.Outcome.Log)
	assert.NotEmpty(t, rep.BattleID)

	sa, err := e.store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	sb, err := e.store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, sa.PvP.HonorPoints)
	assert.Equal(t, 1, sa.PvP.Wins)
	assert.Equal(t, duelNow, sa.PvP.LastBattle)
	assert.Equal(t, 0, sb.PvP.HonorPoints)
	assert.Equal(t, 1, sb.PvP.Losses)

	// Persisted vitals are untouched by PvP.
	assert.Equal(t, a.Health, sa.Health)

	assert.Equal(t, 25, e.board.honor[a.ID])
	assert.Empty(t, e.board.locks, "locks released")
}

func TestDuel_Rejections(t *testing.T) {
	e := newEnv(t)
	a := e.hero(t, "Alpha", "warrior")
	b := e.hero(t, "Bravo", "mage")
	d := e.duels()
	ctx := context.Background()

	_, err := d.Duel(ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, gameserver.ErrSelfDuel)

	e.board.locks[b.ID] = true
	_, err = d.Duel(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, redis.ErrBattleLocked)
	delete(e.board.locks, b.ID)

	e.store.mutate(t, b.ID, func(c *character.Character) { c.PvP.LastBattle = duelNow.Add(-10 * time.Second) })
	_, err = d.Duel(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, pvp.ErrOnCooldown)
	assert.Empty(t, e.board.locks)

	_, err = d.Duel(ctx, a.ID, 999)
	assert.Error(t, err)

	stored, err := e.store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.PvP.TotalBattles())
}

func TestDuel_LadderAndStanding(t *testing.T) {
	e := newEnv(t)
	a := e.hero(t, "Alpha", "warrior")
	b := e.hero(t, "Bravo", "warrior")
	c := e.hero(t, "Charlie", "archer")
	d := e.duels()
	ctx := context.Background()

	_, err := d.Duel(ctx, a.ID, b.ID)
	require.NoError(t, err)

	ladder, err := d.Ladder(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ladder, 2)
	assert.Equal(t, "Alpha", ladder[0].Name)
	assert.Equal(t, 1, ladder[0].Position)
	assert.Equal(t, "Novice", ladder[0].Rank.Name)

	pos, err := d.Standing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	pos, err = d.Standing(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, pos)

	n, err := d.RebuildLadder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	pos, err = d.Standing(ctx, c.ID)
	require.NoError(t, err)
	assert.Positive(t, pos)
}

func TestDuel_Spar(t *testing.T) {
	e := newEnv(t)
	d := e.duels()
	level := 5
	out := d.Spar(
		character.Snapshot{ID: "a", Name: "A", Class: "warrior", Level: &level},
		character.Snapshot{ID: "b", Name: "B", Class: "mage"},
	)
	assert.Contains(t, []string{"a", "b"}, out.WinnerID)
	assert.LessOrEqual(t, out.Rounds, pvp.DefaultRoundCap)
}

func TestNewSourceFactory_SeedReplays(t *testing.T) {
	f1, f2 := gameserver.NewSourceFactory(7), gameserver.NewSourceFactory(7)
	s1, s2 := f1(), f2()
	for i := 0; i < 20; i++ {
		assert.Equal(t, s1.Intn(1000), s2.Intn(1000))
	}
	assert.NotNil(t, gameserver.NewSourceFactory(0)())
}
