// Package combat holds the battle-scoped combatant snapshot and the
// hit/damage resolver shared by PvE and PvP battles.
package combat

import (
	"github.com/cory-johannsen/arena/internal/game/effect"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Kind distinguishes player combatants from monsters.
type Kind int

const (
	KindPlayer Kind = iota
	KindMonster
)

// String returns "player" or "monster".
func (k Kind) String() string {
	if k == KindMonster {
		return "monster"
	}
	return "player"
}

// Combatant is one participant in a battle. It is a snapshot built from
// persisted state at the start of an encounter and discarded at the end,
// except for the health/mana written back by the caller.
//
// Invariant: 0 <= Health <= Stats.HealthCap(); 0 <= Mana <= Stats.ManaCap().
type Combatant struct {
	ID         string
	Name       string
	Kind       Kind
	Class      string // empty for monsters without class semantics
	Level      int
	Attributes stats.Attributes
	Stats      stats.DerivedStats
	Health     int
	Mana       int
	// Effects holds the buffs and debuffs currently applied to this combatant.
	Effects *effect.Set
}

// NewCombatant builds a combatant at full health and mana.
//
// Precondition: id must be non-empty.
// Postcondition: Health == Stats.HealthCap(); Mana == Stats.ManaCap(); Effects is empty.
func NewCombatant(id, name string, kind Kind, class string, level int, attrs stats.Attributes, profile *stats.Profile) *Combatant {
	c := &Combatant{
		ID:         id,
		Name:       name,
		Kind:       kind,
		Class:      class,
		Level:      max(level, 1),
		Attributes: attrs.Clamp(),
		Effects:    effect.NewSet(),
	}
	c.Stats = stats.Derive(c.Attributes, c.Level, profile)
	c.Health = c.Stats.HealthCap()
	c.Mana = c.Stats.ManaCap()
	return c
}

// Rederive recomputes Stats after a level, attribute, or class change and
// clamps current health and mana to the new caps.
func (c *Combatant) Rederive(profile *stats.Profile) {
	c.Stats = stats.Derive(c.Attributes, c.Level, profile)
	c.Health = min(c.Health, c.Stats.HealthCap())
	c.Mana = min(c.Mana, c.Stats.ManaCap())
}

// RestoreFull sets health and mana to their maximums.
func (c *Combatant) RestoreFull() {
	c.Health = c.Stats.HealthCap()
	c.Mana = c.Stats.ManaCap()
}

// IsDead reports whether health has reached zero.
func (c *Combatant) IsDead() bool { return c.Health <= 0 }

// ApplyDamage reduces Health by amount, flooring at zero.
// Precondition: amount must be >= 0.
// Postcondition: Health >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
}

// Heal raises Health by amount without exceeding the cap and returns the
// amount actually restored.
//
// Postcondition: Health <= Stats.HealthCap(); result >= 0.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.Health
	c.Health = min(c.Health+amount, c.Stats.HealthCap())
	return c.Health - before
}

// SpendMana deducts cost and reports whether enough mana was available.
// On false, Mana is unchanged.
func (c *Combatant) SpendMana(cost int) bool {
	if cost > c.Mana {
		return false
	}
	c.Mana -= cost
	return true
}
