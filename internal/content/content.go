// Package content assembles the static rule tables: classes, the skill
// catalog and monster templates. Each table starts from the built-in data
// and is overlaid with YAML files from the configured directories, where an
// entry with an existing ID replaces the built-in one.
package content

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/skill"
)

// Classes returns the built-in classes overlaid with cfg.ClassDir.
func Classes(cfg config.ContentConfig) (*ruleset.Registry, error) {
	reg := ruleset.DefaultRegistry()
	if cfg.ClassDir == "" {
		return reg, nil
	}
	classes, err := ruleset.LoadClasses(cfg.ClassDir)
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	for _, c := range classes {
		reg.Register(c)
	}
	return reg, nil
}

// Skills returns the built-in catalog overlaid with cfg.SkillDir.
//
// Postcondition: every skill belongs to a class registered in classes.
func Skills(cfg config.ContentConfig, classes *ruleset.Registry) (*skill.Catalog, error) {
	cat := skill.DefaultCatalog()
	if cfg.SkillDir != "" {
		skills, err := skill.LoadSkills(cfg.SkillDir)
		if err != nil {
			return nil, fmt.Errorf("loading skills: %w", err)
		}
		for _, s := range skills {
			cat.Register(s)
		}
	}
	for _, s := range cat.All() {
		if _, ok := classes.Class(s.Class); !ok {
			return nil, fmt.Errorf("skill %q: unknown class %q", s.ID, s.Class)
		}
	}
	return cat, nil
}

// Spawner returns a spawner over the built-in monsters overlaid with
// cfg.MonsterDir.
//
// Postcondition: every class a template names is registered in classes.
func Spawner(cfg config.ContentConfig, classes *ruleset.Registry) (*npc.Spawner, error) {
	byID := make(map[string]*npc.Template)
	var order []string
	add := func(ts []*npc.Template) {
		for _, t := range ts {
			if _, ok := byID[t.ID]; !ok {
				order = append(order, t.ID)
			}
			byID[t.ID] = t
		}
	}
	add(npc.DefaultTemplates())
	if cfg.MonsterDir != "" {
		ts, err := npc.LoadTemplates(cfg.MonsterDir)
		if err != nil {
			return nil, fmt.Errorf("loading monsters: %w", err)
		}
		add(ts)
	}

	templates := make([]*npc.Template, 0, len(order))
	for _, id := range order {
		t := byID[id]
		for _, class := range t.Classes {
			if _, ok := classes.Class(class); !ok {
				return nil, fmt.Errorf("monster %q: unknown class %q", t.ID, class)
			}
		}
		templates = append(templates, t)
	}
	return npc.NewSpawner(templates, classes), nil
}
