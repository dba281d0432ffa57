// Package battle runs PvE encounters: one Session per open encounter, one
// Round call per player action.
package battle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

// ErrEncounterOver is returned by calls on a session that has ended.
var ErrEncounterOver = errors.New("encounter is over")

// State is the encounter state machine.
type State int

const (
	Idle State = iota
	InProgress
	// MonsterDefeated ends a round; the next Round continues against the
	// replacement monster.
	MonsterDefeated
	// PlayerDefeated is terminal.
	PlayerDefeated
	// Fled is terminal.
	Fled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case MonsterDefeated:
		return "monster_defeated"
	case PlayerDefeated:
		return "player_defeated"
	case Fled:
		return "fled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Over reports whether s is terminal.
func (s State) Over() bool { return s == PlayerDefeated || s == Fled }

// Rules bundles the static tables a session consults.
type Rules struct {
	Classes *ruleset.Registry
	Skills  *skill.Catalog
	Spawner *npc.Spawner
	Curve   progression.Curve
	// Rewards optionally adjusts rewards after the level-gap penalty.
	Rewards RewardModifier
}

// Session is one open PvE encounter. It owns the battle-scoped state:
// combatant snapshots, cooldowns, and active effects.
// All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	ID        string
	rules     Rules
	src       dice.Source
	character *character.Character
	player    *combat.Combatant
	monster   *npc.Instance
	cooldowns *skill.Cooldowns
	state     State
	round     int
	// exhausted is set when no replacement monster could be spawned.
	exhausted bool
}

// NewSession opens an encounter between char and monster.
//
// Precondition: rules.Classes, rules.Skills, rules.Spawner, char, monster,
// and src must be non-nil.
// Postcondition: State() == Idle.
func NewSession(rules Rules, char *character.Character, monster *npc.Instance, src dice.Source) *Session {
	return &Session{
		ID:        uuid.New().String(),
		rules:     rules,
		src:       src,
		character: char,
		player:    char.Combatant(rules.Classes),
		monster:   monster,
		cooldowns: skill.NewCooldowns(),
		state:     Idle,
	}
}

// State returns the current encounter state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Over reports whether the encounter has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over()
}

func (s *Session) over() bool { return s.state.Over() || s.exhausted }

// Character returns the persisted record this session updates.
// Callers must not mutate it while a round is running.
func (s *Session) Character() *character.Character { return s.character }

// Snapshot returns the current view of the encounter.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Flee ends the encounter without rewards or experience loss.
//
// Postcondition: State() == Fled.
func (s *Session) Flee() (RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Over() {
		return RoundResult{}, ErrEncounterOver
	}
	s.state = Fled
	s.character.SyncVitals(s.player)
	return s.result([]string{fmt.Sprintf("%s flees from %s.", s.player.Name, s.monster.Name())}), nil
}

// MonsterStrike lets the monster attack a player who has not acted. A death
// on this path costs the idle-death experience loss. Cooldowns and effects
// do not tick.
func (s *Session) MonsterStrike() (RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over() {
		return RoundResult{}, ErrEncounterOver
	}
	s.state = InProgress
	var log []string
	s.monsterAttack(&log)
	lost := 0
	if s.player.IsDead() {
		lost = s.playerDies(progression.DeathIdle, &log)
	} else {
		s.character.SyncVitals(s.player)
	}
	out := s.result(log)
	out.ExperienceLost = lost
	return out, nil
}

func (s *Session) monsterAttack(log *[]string) {
	m := s.monster.Combatant
	res := combat.ResolveAttack(m, s.player, 1, s.src)
	s.player.ApplyDamage(res.Damage)
	*log = append(*log, combat.DescribeAttack(m, s.player, res, ""))
}

// playerDies applies the experience loss for path, restores the character
// for its next encounter, and ends the session.
func (s *Session) playerDies(path progression.DeathPath, log *[]string) int {
	lost := progression.ApplyDeath(s.character, path, s.rules.Curve)
	*log = append(*log, fmt.Sprintf("%s has been defeated by %s and loses %d experience.",
		s.player.Name, s.monster.Name(), lost))
	s.state = PlayerDefeated
	s.cooldowns.Clear()
	s.player.Effects.Clear()
	s.character.RestoreVitals(s.rules.Classes)
	return lost
}
