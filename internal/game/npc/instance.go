package npc

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
)

// Instance is a live monster in one encounter.
type Instance struct {
	// TemplateID is the source template's ID.
	TemplateID string
	// Combatant is the monster's battle state. Its ID is a fresh uuid.
	Combatant *combat.Combatant
	// Experience and Gold are the base rewards before any level-gap penalty.
	Experience int
	Gold       int
	// Loot is the drop table copied from the template.
	Loot LootTable
}

// Name returns the instance's display name.
func (i *Instance) Name() string { return i.Combatant.Name }

// Level returns the instance's level.
func (i *Instance) Level() int { return i.Combatant.Level }

// Spawner creates monster instances with a random class and name.
type Spawner struct {
	templates map[string]*Template
	classes   *ruleset.Registry
}

// NewSpawner creates a Spawner over templates, resolving class profiles in classes.
//
// Precondition: classes must be non-nil.
func NewSpawner(templates []*Template, classes *ruleset.Registry) *Spawner {
	m := make(map[string]*Template, len(templates))
	for _, t := range templates {
		m[t.ID] = t
	}
	return &Spawner{templates: m, classes: classes}
}

// Template returns the template with id.
func (s *Spawner) Template(id string) (*Template, bool) {
	t, ok := s.templates[id]
	return t, ok
}

// IDs returns the known template IDs ordered by level then ID.
func (s *Spawner) IDs() []string {
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.templates[ids[i]], s.templates[ids[j]]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.ID < b.ID
	})
	return ids
}

// Spawn creates an instance of templateID at level. A level below 1 uses the
// template's level. The class is drawn first, then the name.
//
// Postcondition: the instance is at full health with an empty effect set.
func (s *Spawner) Spawn(templateID string, level int, src dice.Source) (*Instance, error) {
	tmpl, ok := s.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("unknown monster template %q", templateID)
	}
	if level < 1 {
		level = tmpl.Level
	}

	classes := tmpl.Classes
	if len(classes) == 0 {
		classes = s.classes.IDs()
	}
	var class string
	if len(classes) > 0 {
		class = classes[dice.Pick(src, "spawn:class", len(classes))]
	}
	name := tmpl.Name
	if len(tmpl.Names) > 0 {
		name = tmpl.Names[dice.Pick(src, "spawn:name", len(tmpl.Names))]
	}

	c := combat.NewCombatant(uuid.New().String(), name, combat.KindMonster, class, level,
		tmpl.Attributes.Normalize(), s.classes.Profile(class))
	c.Stats.Attack += tmpl.BaseAttack
	c.Stats.Defense += tmpl.BaseDefense

	return &Instance{
		TemplateID: tmpl.ID,
		Combatant:  c,
		Experience: tmpl.Experience,
		Gold:       tmpl.Gold,
		Loot:       tmpl.Loot,
	}, nil
}

// Replace spawns a fresh instance of the same template and level as prev.
func (s *Spawner) Replace(prev *Instance, src dice.Source) (*Instance, error) {
	return s.Spawn(prev.TemplateID, prev.Level(), src)
}
