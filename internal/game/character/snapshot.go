package character

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Snapshot is the loosely shaped combatant input accepted at the system
// boundary. Any field may be absent.
type Snapshot struct {
	ID         string                  `yaml:"id"`
	Name       string                  `yaml:"name"`
	Class      string                  `yaml:"class"`
	Level      *int                    `yaml:"level"`
	Attributes stats.PartialAttributes `yaml:"attributes"`
	Equipment  stats.Attributes        `yaml:"equipment"`
	Health     *int                    `yaml:"health"`
	Mana       *int                    `yaml:"mana"`
}

// Normalize turns s into a combatant. Missing attributes default to
// stats.DefaultAttribute, a missing or non-positive level becomes 1, an
// unknown class is treated as unclassed, and missing vitals start full.
//
// Postcondition: the result satisfies the combat.Combatant invariants.
func (s Snapshot) Normalize(classes *ruleset.Registry) *combat.Combatant {
	level := 1
	if s.Level != nil && *s.Level > 0 {
		level = *s.Level
	}
	class := s.Class
	if _, ok := classes.Class(class); !ok {
		class = ""
	}
	name := s.Name
	if name == "" {
		name = s.ID
	}

	attrs := s.Attributes.Normalize().Add(s.Equipment)
	cbt := combat.NewCombatant(s.ID, name, combat.KindPlayer, class, level, attrs, classes.Profile(class))
	if s.Health != nil {
		cbt.Health = clamp(*s.Health, 0, cbt.Stats.HealthCap())
	}
	if s.Mana != nil {
		cbt.Mana = clamp(*s.Mana, 0, cbt.Stats.ManaCap())
	}
	return cbt
}

// LoadSnapshots parses a YAML (or JSON) list of snapshots.
//
// Postcondition: every returned snapshot has a non-empty ID.
func LoadSnapshots(data []byte) ([]Snapshot, error) {
	var out []Snapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing snapshots: %w", err)
	}
	for i, s := range out {
		if s.ID == "" {
			return nil, fmt.Errorf("snapshot[%d]: id must not be empty", i)
		}
	}
	return out, nil
}
