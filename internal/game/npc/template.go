// Package npc provides monster templates, loot tables, and live monster
// instances for PvE encounters.
package npc

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/stats"
)

//go:embed monsters/*.yaml
var defaultMonsters embed.FS

// Template defines a reusable monster archetype loaded from YAML.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Names is the pool a spawned instance draws its display name from.
	// Empty means every instance is called Name.
	Names []string `yaml:"names"`
	// Classes is the pool a spawned instance draws its class from.
	// Empty means any registered class.
	Classes []string `yaml:"classes"`
	Level   int      `yaml:"level"`
	// Attributes may omit fields; missing ones default to stats.DefaultAttribute.
	Attributes  stats.PartialAttributes `yaml:"attributes"`
	BaseAttack  float64                 `yaml:"base_attack"`
	BaseDefense float64                 `yaml:"base_defense"`
	Experience  int                     `yaml:"experience"`
	Gold        int                     `yaml:"gold"`
	Loot        LootTable               `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// rewards and base stats are >= 0, and the loot table is valid.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("monster template %q: level must be >= 1", t.ID)
	}
	if t.BaseAttack < 0 || t.BaseDefense < 0 {
		return fmt.Errorf("monster template %q: base_attack and base_defense must be >= 0", t.ID)
	}
	if t.Experience < 0 || t.Gold < 0 {
		return fmt.Errorf("monster template %q: experience and gold must be >= 0", t.ID)
	}
	for i, n := range t.Names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("monster template %q: names[%d] must not be blank", t.ID, i)
		}
	}
	if err := t.Loot.Validate(); err != nil {
		return fmt.Errorf("monster template %q: %w", t.ID, err)
	}
	return nil
}

// LoadTemplateFromBytes parses a single monster template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	return loadTemplatesFS(os.DirFS(dir), ".")
}

// DefaultTemplates returns the built-in bestiary.
func DefaultTemplates() []*Template {
	templates, err := loadTemplatesFS(defaultMonsters, "monsters")
	if err != nil {
		panic("npc: embedded monster templates are invalid: " + err.Error())
	}
	return templates
}

func loadTemplatesFS(fsys fs.FS, dir string) ([]*Template, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		p := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", p, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
