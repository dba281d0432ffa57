package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// MaxNameLength bounds character names.
const MaxNameLength = 32

// New constructs a level 1 character of class with every attribute at
// stats.DefaultAttribute and full health and mana.
//
// Precondition: name must be non-blank; class must be registered in classes.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func New(name, class string, classes *ruleset.Registry) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if len(name) > MaxNameLength {
		return nil, fmt.Errorf("character name must be at most %d characters", MaxNameLength)
	}
	if _, ok := classes.Class(class); !ok {
		return nil, fmt.Errorf("unknown class %q", class)
	}

	d := stats.DefaultAttribute
	c := &Character{
		Name:       name,
		Class:      class,
		Level:      1,
		Attributes: stats.Attributes{Strength: d, Magic: d, Dexterity: d, Agility: d, Luck: d},
	}
	c.RestoreVitals(classes)
	return c, nil
}
