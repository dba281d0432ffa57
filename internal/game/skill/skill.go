// Package skill implements the class skill catalog, per-battle cooldowns,
// mastery scaling, and skill use.
package skill

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/effect"
)

//go:embed skills.yaml
var defaultSkills []byte

// EffectType is what a skill does when used.
type EffectType string

const (
	EffectDamage EffectType = "damage"
	EffectHeal   EffectType = "heal"
	EffectBuff   EffectType = "buff"
	EffectDebuff EffectType = "debuff"
)

// Skill is one catalog entry.
type Skill struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Class       string     `yaml:"class"`
	MinLevel    int        `yaml:"min_level"`
	ManaCost    int        `yaml:"mana_cost"`
	Cooldown    int        `yaml:"cooldown"`
	Effect      EffectType `yaml:"effect"`
	// Modifier is required for buff and debuff skills.
	Modifier effect.Modifier `yaml:"modifier"`
	Value    float64         `yaml:"value"`
	Duration int             `yaml:"duration"`
}

// Validate checks the skill invariants.
//
// Postcondition: Returns nil iff the skill can be used as loaded.
func (s *Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill: id must not be empty")
	}
	if s.Name == "" || s.Class == "" {
		return fmt.Errorf("skill %q: name and class must not be empty", s.ID)
	}
	if s.MinLevel < 1 || s.ManaCost < 0 || s.Cooldown < 0 || s.Value < 0 {
		return fmt.Errorf("skill %q: min_level must be >= 1 and costs must be >= 0", s.ID)
	}
	switch s.Effect {
	case EffectDamage, EffectHeal:
	case EffectBuff, EffectDebuff:
		if !s.Modifier.Valid() {
			return fmt.Errorf("skill %q: unknown modifier %q", s.ID, s.Modifier)
		}
		if s.Duration < 1 {
			return fmt.Errorf("skill %q: duration must be >= 1", s.ID)
		}
		if s.Effect == EffectDebuff && s.Modifier != effect.ModDamageOverTime {
			return fmt.Errorf("skill %q: debuffs must use %q", s.ID, effect.ModDamageOverTime)
		}
	default:
		return fmt.Errorf("skill %q: unknown effect %q", s.ID, s.Effect)
	}
	return nil
}

// Catalog provides lookup of skills by ID and by class.
type Catalog struct {
	skills map[string]*Skill
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{skills: make(map[string]*Skill)}
}

// DefaultCatalog returns the built-in nine-skill catalog.
func DefaultCatalog() *Catalog {
	skills, err := LoadSkillsFromBytes(defaultSkills)
	if err != nil {
		panic("skill: embedded skills.yaml is invalid: " + err.Error())
	}
	c := NewCatalog()
	for _, s := range skills {
		c.Register(s)
	}
	return c
}

// Register adds s, replacing any skill with the same ID.
//
// Precondition: s must be non-nil with a non-empty ID.
func (c *Catalog) Register(s *Skill) {
	if s == nil || s.ID == "" {
		panic("Catalog.Register: precondition violated: skill must be non-nil with an ID")
	}
	c.skills[s.ID] = s
}

// Get returns the skill with id.
func (c *Catalog) Get(id string) (*Skill, bool) {
	s, ok := c.skills[id]
	return s, ok
}

// All returns every skill ordered by ID.
func (c *Catalog) All() []*Skill {
	out := make([]*Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForClass returns the skills of class ordered by minimum level then ID.
func (c *Catalog) ForClass(class string) []*Skill {
	var out []*Skill
	for _, s := range c.skills {
		if s.Class == class {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MinLevel != out[j].MinLevel {
			return out[i].MinLevel < out[j].MinLevel
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LoadSkillsFromBytes parses a YAML list of skills.
func LoadSkillsFromBytes(data []byte) ([]*Skill, error) {
	var skills []*Skill
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&skills); err != nil {
		return nil, fmt.Errorf("parsing skills: %w", err)
	}
	for _, s := range skills {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return skills, nil
}

// LoadSkills reads every .yaml/.yml file in dir.
//
// Precondition: dir must be a readable directory path.
func LoadSkills(dir string) ([]*Skill, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var skills []*Skill
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		loaded, err := LoadSkillsFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		skills = append(skills, loaded...)
	}
	return skills, nil
}
