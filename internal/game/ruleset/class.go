// Package ruleset holds the static class table used by stat derivation.
package ruleset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/stats"
)

// Class identifiers for the three playable classes.
const (
	Warrior = "warrior"
	Mage    = "mage"
	Archer  = "archer"
)

//go:embed classes.yaml
var defaultClasses []byte

// Class defines a playable character class.
//
// Precondition: ID and Name must be non-empty after loading.
type Class struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	stats.Profile `yaml:",inline"`
}

// Validate checks the class invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty and all weights are >= 0.
func (c *Class) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("class: id must not be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("class %q: name must not be empty", c.ID)
	}
	if c.HealthPerLevel < 0 || c.DefenseStrength < 0 ||
		c.Attack.Strength < 0 || c.Attack.Magic < 0 || c.Attack.Dexterity < 0 {
		return fmt.Errorf("class %q: weights must be >= 0", c.ID)
	}
	return nil
}

// LoadClassesFromBytes parses a YAML list of classes.
//
// Postcondition: Returns validated classes or an error on the first violation.
func LoadClassesFromBytes(data []byte) ([]*Class, error) {
	var classes []*Class
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&classes); err != nil {
		return nil, fmt.Errorf("parsing classes: %w", err)
	}
	for _, c := range classes {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// LoadClasses reads every .yaml/.yml file in dir; each file holds a list of classes.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	classes := make([]*Class, 0)
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
		loaded, err := LoadClassesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		classes = append(classes, loaded...)
	}
	return classes, nil
}
