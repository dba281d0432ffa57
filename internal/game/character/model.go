// Package character defines the persisted player character and its
// conversion into a battle combatant.
package character

import (
	"strconv"
	"time"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Character represents a player character's persistent state.
//
// ID is set by the persistence layer; a zero value indicates an unsaved character.
type Character struct {
	ID int64

	Name       string
	Class      string // class ID; empty means unclassed
	Level      int
	Experience int
	// AttributePoints are earned on level-up and spent with progression.Allocate.
	AttributePoints int

	Attributes stats.Attributes
	// Equipment is the summed attribute bonus of equipped items.
	Equipment stats.Attributes

	Health int
	Mana   int
	Gold   int

	// Mastery maps skill ID to mastery level. Missing entries are level 1.
	Mastery map[string]int
	PvP     pvp.Stats

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CombatantID returns the combatant ID used for this character in battle.
func (c *Character) CombatantID() string {
	return strconv.FormatInt(c.ID, 10)
}

// EffectiveAttributes returns base attributes plus equipment.
func (c *Character) EffectiveAttributes() stats.Attributes {
	return c.Attributes.Add(c.Equipment)
}

// Derived computes the character's derived stats with classes resolving the
// class profile.
func (c *Character) Derived(classes *ruleset.Registry) stats.DerivedStats {
	return stats.Derive(c.EffectiveAttributes(), c.Level, classes.Profile(c.Class))
}

// Combatant builds a battle snapshot of c. Stored health and mana are
// clamped to the derived caps.
//
// Precondition: classes must be non-nil.
// Postcondition: the result's effect set is empty.
func (c *Character) Combatant(classes *ruleset.Registry) *combat.Combatant {
	cbt := combat.NewCombatant(c.CombatantID(), c.Name, combat.KindPlayer, c.Class, c.Level,
		c.EffectiveAttributes(), classes.Profile(c.Class))
	cbt.Health = clamp(c.Health, 0, cbt.Stats.HealthCap())
	cbt.Mana = clamp(c.Mana, 0, cbt.Stats.ManaCap())
	return cbt
}

// SyncVitals copies health and mana back from a battle snapshot.
func (c *Character) SyncVitals(cbt *combat.Combatant) {
	c.Health = cbt.Health
	c.Mana = cbt.Mana
}

// RestoreVitals sets health and mana to their derived maximums.
func (c *Character) RestoreVitals(classes *ruleset.Registry) {
	d := c.Derived(classes)
	c.Health = d.HealthCap()
	c.Mana = d.ManaCap()
}

// MasteryOf returns the mastery level for skillID.
//
// Postcondition: result >= skill.MinMastery.
func (c *Character) MasteryOf(skillID string) int {
	return max(c.Mastery[skillID], skill.MinMastery)
}

// SetMastery records level for skillID.
func (c *Character) SetMastery(skillID string, level int) {
	if c.Mastery == nil {
		c.Mastery = make(map[string]int)
	}
	c.Mastery[skillID] = level
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
