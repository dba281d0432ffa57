package gameserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/observability"
)

// idleStrikeTimeout bounds the persistence work done by an idle strike.
const idleStrikeTimeout = 5 * time.Second

// HuntService runs PvE encounters and persists the character after every
// round.
//
// mu serialises every session call and the write that follows it, so the
// idle timer goroutine and caller goroutines cannot interleave.
type HuntService struct {
	rules     battle.Rules
	chars     CharacterStore
	sessions  *battle.Registry
	sources   SourceFactory
	idleAfter time.Duration
	logger    *zap.Logger

	// OnIdleStrike, when set, receives the result of every idle strike.
	OnIdleStrike func(characterID int64, res battle.RoundResult)

	mu     sync.Mutex
	timers map[int64]*battle.IdleTimer
}

// NewHuntService creates a HuntService. idleAfter <= 0 disables idle strikes.
//
// Precondition: rules must carry Classes, Skills and Spawner; all other
// pointer arguments must be non-nil.
// Postcondition: Returns a HuntService with no open encounters.
func NewHuntService(
	rules battle.Rules,
	chars CharacterStore,
	sessions *battle.Registry,
	sources SourceFactory,
	idleAfter time.Duration,
	logger *zap.Logger,
) *HuntService {
	return &HuntService{
		rules:     rules,
		chars:     chars,
		sessions:  sessions,
		sources:   sources,
		idleAfter: idleAfter,
		logger:    logger,
		timers:    make(map[int64]*battle.IdleTimer),
	}
}

// Start opens an encounter between the character and a fresh monster of
// templateID at level. A level below 1 uses the template's level.
//
// Postcondition: Returns ErrInBattle if an encounter is already in progress.
func (h *HuntService) Start(ctx context.Context, characterID int64, templateID string, level int) (battle.View, error) {
	c, err := h.chars.GetByID(ctx, characterID)
	if err != nil {
		return battle.View{}, fmt.Errorf("loading character %d: %w", characterID, err)
	}

	src := dice.NewLoggedRoller(h.sources(), h.logger)
	monster, err := h.rules.Spawner.Spawn(templateID, level, src)
	if err != nil {
		return battle.View{}, err
	}
	sess := battle.NewSession(h.rules, c, monster, src)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.sessions.Start(characterID, sess); err != nil {
		return battle.View{}, fmt.Errorf("%w: %v", ErrInBattle, err)
	}
	h.stopTimerLocked(characterID)
	if h.idleAfter > 0 {
		h.timers[characterID] = battle.NewIdleTimer(h.idleAfter, func(gen uint64) { h.idleStrike(characterID, gen) })
	}

	observability.ForBattle(h.logger, "pve", sess.ID, characterID).Info("hunt started",
		zap.String("monster", monster.TemplateID),
		zap.Int("monster_level", monster.Level()),
	)
	return sess.Snapshot(), nil
}

// View returns the open encounter's current state.
func (h *HuntService) View(characterID int64) (battle.View, error) {
	sess, ok := h.sessions.Get(characterID)
	if !ok {
		return battle.View{}, ErrNoEncounter
	}
	return sess.Snapshot(), nil
}

// Round resolves one player action and persists the result.
//
// Postcondition: On a terminal result the encounter is closed.
func (h *HuntService) Round(ctx context.Context, characterID int64, a battle.Action) (battle.RoundResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions.Get(characterID)
	if !ok {
		return battle.RoundResult{}, ErrNoEncounter
	}
	res, err := sess.Round(a)
	if err != nil {
		return res, err
	}
	if t := h.timers[characterID]; t != nil {
		t.Touch()
	}
	return res, h.persistLocked(ctx, characterID, sess, res)
}

// Strike lets the monster attack without a player action, as when the
// player idles.
func (h *HuntService) Strike(ctx context.Context, characterID int64) (battle.RoundResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.strikeLocked(ctx, characterID)
}

// Precondition: h.mu must be held.
func (h *HuntService) strikeLocked(ctx context.Context, characterID int64) (battle.RoundResult, error) {
	sess, ok := h.sessions.Get(characterID)
	if !ok {
		return battle.RoundResult{}, ErrNoEncounter
	}
	res, err := sess.MonsterStrike()
	if err != nil {
		return res, err
	}
	return res, h.persistLocked(ctx, characterID, sess, res)
}

// Flee ends the encounter without rewards and saves the character's vitals.
func (h *HuntService) Flee(ctx context.Context, characterID int64) (battle.RoundResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions.Get(characterID)
	if !ok {
		return battle.RoundResult{}, ErrNoEncounter
	}
	res, err := sess.Flee()
	if err != nil {
		return res, err
	}
	c := sess.Character()
	h.endLocked(characterID)
	if err := h.chars.SaveVitals(ctx, characterID, c.Health, c.Mana); err != nil {
		return res, fmt.Errorf("saving vitals for %d: %w", characterID, err)
	}
	return res, nil
}

// End discards the encounter, if any, without resolving it.
func (h *HuntService) End(characterID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.endLocked(characterID)
}

// Close stops every idle timer.
func (h *HuntService) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.timers {
		h.stopTimerLocked(id)
	}
}

// idleStrike strikes for the countdown generation gen. A generation that
// the player's action has superseded while this call waited for h.mu is
// dropped.
func (h *HuntService) idleStrike(characterID int64, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), idleStrikeTimeout)
	defer cancel()

	h.mu.Lock()
	if t := h.timers[characterID]; t == nil || !t.Idle(gen) {
		h.mu.Unlock()
		return
	}
	res, err := h.strikeLocked(ctx, characterID)
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("idle strike failed", zap.Int64("character_id", characterID), zap.Error(err))
		return
	}
	if h.OnIdleStrike != nil {
		h.OnIdleStrike(characterID, res)
	}
}

// persistLocked saves the character after a resolved round and closes the
// encounter when it has ended.
//
// Precondition: h.mu must be held.
func (h *HuntService) persistLocked(ctx context.Context, characterID int64, sess *battle.Session, res battle.RoundResult) error {
	logger := observability.ForBattle(h.logger, "pve", sess.ID, characterID)
	if res.Spoils != nil {
		logger.Info("monster defeated",
			zap.Int("experience", res.Spoils.Experience),
			zap.Int("gold", res.Spoils.Gold),
			zap.Int("items", len(res.Spoils.Loot)),
			zap.Int("level", res.Spoils.LevelUp.To),
		)
	}
	if res.ExperienceLost > 0 || res.State == battle.PlayerDefeated {
		logger.Info("character defeated", zap.Int("experience_lost", res.ExperienceLost))
	}

	if sess.Over() {
		h.endLocked(characterID)
	}
	if err := h.chars.SaveProgress(ctx, sess.Character()); err != nil {
		return fmt.Errorf("saving progress for %d: %w", characterID, err)
	}
	return nil
}

// Precondition: h.mu must be held.
func (h *HuntService) endLocked(characterID int64) {
	h.stopTimerLocked(characterID)
	h.sessions.End(characterID)
}

// Precondition: h.mu must be held.
func (h *HuntService) stopTimerLocked(characterID int64) {
	if t, ok := h.timers[characterID]; ok {
		t.Stop()
		delete(h.timers, characterID)
	}
}
