package battle

import (
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// Vitals is the health and mana of one combatant.
type Vitals struct {
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
}

func vitalsOf(c *combat.Combatant) Vitals {
	return Vitals{Health: c.Health, MaxHealth: c.Stats.HealthCap(), Mana: c.Mana, MaxMana: c.Stats.ManaCap()}
}

// View is a read-only picture of an encounter.
type View struct {
	SessionID    string
	State        State
	Round        int
	Player       Vitals
	MonsterName  string
	MonsterLevel int
	Monster      Vitals
	Cooldowns    map[string]int
	Effects      []string
}

// Spoils is what the player earned for a kill.
type Spoils struct {
	progression.Reward
	Loot    []npc.LootItem
	LevelUp progression.LevelUp
}

// RoundResult is the outcome of one Round, MonsterStrike, or Flee call.
type RoundResult struct {
	View
	// Log is the ordered battle log for this call.
	Log []string
	// Spoils is set when the monster died this round.
	Spoils *Spoils
	// Defeated is the monster that died this round; the session has already
	// moved on to its replacement.
	Defeated *npc.Instance
	// ExperienceLost is set when the player died this round.
	ExperienceLost int
}
