package gameserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/storage/redis"
)

// DuelService runs PvP battles between stored characters and maintains the
// honor ladder.
type DuelService struct {
	classes  *ruleset.Registry
	chars    CharacterStore
	board    Board
	roundCap int
	cooldown time.Duration
	sources  SourceFactory
	now      func() time.Time
	logger   *zap.Logger
}

// NewDuelService creates a DuelService. now may be nil to use time.Now.
//
// Precondition: classes, sources and logger must be non-nil. chars and board
// may be nil when only Spar is used.
func NewDuelService(
	classes *ruleset.Registry,
	chars CharacterStore,
	board Board,
	roundCap int,
	cooldown time.Duration,
	sources SourceFactory,
	now func() time.Time,
	logger *zap.Logger,
) *DuelService {
	if now == nil {
		now = time.Now
	}
	return &DuelService{
		classes:  classes,
		chars:    chars,
		board:    board,
		roundCap: roundCap,
		cooldown: cooldown,
		sources:  sources,
		now:      now,
		logger:   logger,
	}
}

// DuelReport is the result of one duel.
type DuelReport struct {
	BattleID string
	Outcome  pvp.Outcome
	Honor    pvp.Result
	// Winner and Loser carry their updated PvP records.
	Winner *character.Character
	Loser  *character.Character
}

// Duel fights challengerID against defenderID. Both sides enter at full
// health and mana; persisted vitals are untouched. The challenger acts
// first and wins an exact tie at the round cap.
//
// Postcondition: On success both PvP records are saved and the ladder updated.
// Returns ErrSelfDuel, redis.ErrBattleLocked, or an error matching
// pvp.ErrOnCooldown without writing anything.
func (d *DuelService) Duel(ctx context.Context, challengerID, defenderID int64) (DuelReport, error) {
	if challengerID == defenderID {
		return DuelReport{}, ErrSelfDuel
	}
	unlock, err := d.board.LockBattle(ctx, challengerID, defenderID)
	if err != nil {
		return DuelReport{}, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			d.logger.Warn("releasing battle lock", zap.Error(err))
		}
	}()

	challenger, err := d.chars.GetByID(ctx, challengerID)
	if err != nil {
		return DuelReport{}, fmt.Errorf("loading challenger %d: %w", challengerID, err)
	}
	defender, err := d.chars.GetByID(ctx, defenderID)
	if err != nil {
		return DuelReport{}, fmt.Errorf("loading defender %d: %w", defenderID, err)
	}

	now := d.now()
	for _, c := range []*character.Character{challenger, defender} {
		if err := pvp.CheckCooldown(c.PvP, now, d.cooldown); err != nil {
			return DuelReport{}, fmt.Errorf("%s: %w", c.Name, err)
		}
	}

	battleID := uuid.NewString()
	logger := observability.ForBattle(d.logger, "pvp", battleID, challengerID, defenderID)

	p1, p2 := challenger.Combatant(d.classes), defender.Combatant(d.classes)
	p1.RestoreFull()
	p2.RestoreFull()
	out := pvp.Simulate(p1, p2, d.roundCap, dice.NewLoggedRoller(d.sources(), logger))

	winner, loser := challenger, defender
	if out.WinnerID == defender.CombatantID() {
		winner, loser = defender, challenger
	}
	honor := pvp.Apply(&winner.PvP, &loser.PvP, now)

	if err := d.chars.SaveDuel(ctx, winner.ID, winner.PvP, loser.ID, loser.PvP); err != nil {
		return DuelReport{}, fmt.Errorf("saving duel: %w", err)
	}
	for _, c := range []*character.Character{winner, loser} {
		if err := d.board.SetHonor(ctx, c.ID, c.PvP.HonorPoints); err != nil {
			logger.Warn("updating ladder", zap.Int64("character_id", c.ID), zap.Error(err))
		}
	}

	logger.Info("duel finished",
		zap.Int64("winner_id", winner.ID),
		zap.Int("rounds", out.Rounds),
		zap.Bool("decision", out.Decision),
		zap.Int("winner_gain", honor.WinnerGain),
		zap.Int("loser_loss", honor.LoserLoss),
	)
	return DuelReport{BattleID: battleID, Outcome: out, Honor: honor, Winner: winner, Loser: loser}, nil
}

// Spar simulates a battle between two ad-hoc snapshots. Nothing is saved.
func (d *DuelService) Spar(a, b character.Snapshot) pvp.Outcome {
	return pvp.Simulate(a.Normalize(d.classes), b.Normalize(d.classes), d.roundCap,
		dice.NewLoggedRoller(d.sources(), d.logger))
}

// LadderEntry is one row of the honor ladder.
type LadderEntry struct {
	Position    int
	CharacterID int64
	Name        string
	Honor       int
	Rank        pvp.Rank
}

// Ladder returns the n best characters by honor. Entries whose character no
// longer exists are skipped.
func (d *DuelService) Ladder(ctx context.Context, n int) ([]LadderEntry, error) {
	top, err := d.board.Top(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]LadderEntry, 0, len(top))
	for _, s := range top {
		c, err := d.chars.GetByID(ctx, s.CharacterID)
		if err != nil {
			d.logger.Debug("skipping ladder entry", zap.Int64("character_id", s.CharacterID), zap.Error(err))
			continue
		}
		out = append(out, LadderEntry{
			Position:    s.Position,
			CharacterID: s.CharacterID,
			Name:        c.Name,
			Honor:       s.Honor,
			Rank:        pvp.RankFor(s.Honor),
		})
	}
	return out, nil
}

// Standing returns a character's ladder position, or 0 when unranked.
func (d *DuelService) Standing(ctx context.Context, characterID int64) (int, error) {
	pos, err := d.board.Position(ctx, characterID)
	if errors.Is(err, redis.ErrNotRanked) {
		return 0, nil
	}
	return pos, err
}

// RebuildLadder replaces the ladder with the durable honor records.
//
// Postcondition: Returns the number of ranked characters.
func (d *DuelService) RebuildLadder(ctx context.Context) (int, error) {
	entries, err := d.chars.ListHonor(ctx, 0)
	if err != nil {
		return 0, err
	}
	src := make([]redis.HonorSource, len(entries))
	for i, e := range entries {
		src[i] = redis.HonorSource{CharacterID: e.CharacterID, Honor: e.Honor}
	}
	if err := d.board.Rebuild(ctx, src); err != nil {
		return 0, err
	}
	d.logger.Info("ladder rebuilt", zap.Int("characters", len(src)))
	return len(src), nil
}
