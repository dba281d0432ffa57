// Package effect tracks battle-scoped buffs and debuffs with turn durations.
package effect

import (
	"fmt"
	"sort"
)

// Kind distinguishes effects on the caster from effects on the enemy.
type Kind int

const (
	// Buff is applied to the caster.
	Buff Kind = iota
	// Debuff is applied to the target.
	Debuff
)

// String returns "buff" or "debuff".
func (k Kind) String() string {
	if k == Debuff {
		return "debuff"
	}
	return "buff"
}

// Modifier names the stat an effect changes where it is consumed.
type Modifier string

const (
	ModAttack          Modifier = "attack"
	ModDefense         Modifier = "defense"
	ModDodge           Modifier = "dodge"
	ModDamageReduction Modifier = "damage_reduction"
	ModDamageOverTime  Modifier = "damage_over_time"
)

// Valid reports whether m is one of the known modifiers.
func (m Modifier) Valid() bool {
	switch m {
	case ModAttack, ModDefense, ModDodge, ModDamageReduction, ModDamageOverTime:
		return true
	}
	return false
}

// Active is one applied buff or debuff.
//
// Invariant: Remaining > 0 while the effect is held in a Set.
type Active struct {
	SkillID  string
	Name     string
	Kind     Kind
	Modifier Modifier
	// Value is the scaled fraction for stat modifiers, e.g. 0.3 = +30%.
	Value float64
	// TickDamage is the fixed damage dealt per completed turn by a
	// damage-over-time debuff. Resolved once at application time.
	TickDamage int
	Remaining  int
}

// Set holds all effects currently applied to one combatant, keyed by skill ID.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	effects map[string]*Active
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{effects: make(map[string]*Active)}
}

// Apply adds an effect or refreshes an existing one from the same skill.
// A refresh replaces the value and keeps the longer remaining duration.
//
// Precondition: a.SkillID non-empty; a.Remaining > 0; a.Modifier valid.
// Postcondition: Has(a.SkillID) is true.
func (s *Set) Apply(a Active) error {
	if a.SkillID == "" {
		return fmt.Errorf("effect: skill id must not be empty")
	}
	if a.Remaining <= 0 {
		return fmt.Errorf("effect %q: duration must be > 0, got %d", a.SkillID, a.Remaining)
	}
	if !a.Modifier.Valid() {
		return fmt.Errorf("effect %q: unknown modifier %q", a.SkillID, a.Modifier)
	}
	if existing, ok := s.effects[a.SkillID]; ok {
		if existing.Remaining > a.Remaining {
			a.Remaining = existing.Remaining
		}
	}
	cp := a
	s.effects[a.SkillID] = &cp
	return nil
}

// Remove deletes the effect with the given skill ID. No-op if absent.
//
// Postcondition: Has(id) is false.
func (s *Set) Remove(id string) {
	delete(s.effects, id)
}

// Has reports whether an effect from skill id is active.
func (s *Set) Has(id string) bool {
	_, ok := s.effects[id]
	return ok
}

// Get returns a copy of the effect from skill id.
func (s *Set) Get(id string) (Active, bool) {
	a, ok := s.effects[id]
	if !ok {
		return Active{}, false
	}
	return *a, true
}

// Len returns the number of active effects.
func (s *Set) Len() int { return len(s.effects) }

// All returns copies of the active effects ordered by skill ID.
func (s *Set) All() []Active {
	out := make([]Active, 0, len(s.effects))
	for _, a := range s.effects {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	return out
}

// Tick decrements every effect's Remaining by one and removes those that reach zero.
//
// Postcondition: for every id in the returned slice, Has(id) is false.
// The returned ids are sorted.
func (s *Set) Tick() []string {
	var expired []string
	for id, a := range s.effects {
		a.Remaining--
		if a.Remaining <= 0 {
			expired = append(expired, id)
			delete(s.effects, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// Clear removes every effect.
func (s *Set) Clear() {
	s.effects = make(map[string]*Active)
}
