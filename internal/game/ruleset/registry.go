package ruleset

import "github.com/cory-johannsen/arena/internal/game/stats"

// Registry provides lookup of classes by ID.
type Registry struct {
	classes map[string]*Class
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*Class)}
}

// DefaultRegistry returns a Registry populated with the built-in class table.
//
// Postcondition: Warrior, Mage, and Archer are registered.
func DefaultRegistry() *Registry {
	classes, err := LoadClassesFromBytes(defaultClasses)
	if err != nil {
		panic("ruleset: embedded classes.yaml is invalid: " + err.Error())
	}
	r := NewRegistry()
	for _, c := range classes {
		r.Register(c)
	}
	return r
}

// Register adds a Class to the registry.
//
// Precondition: class must be non-nil with a non-empty ID.
// Postcondition: if called multiple times with the same ID, the last call wins.
func (r *Registry) Register(class *Class) {
	if class == nil {
		panic("Registry.Register: precondition violated: class must be non-nil")
	}
	if class.ID == "" {
		panic("Registry.Register: precondition violated: class ID must be non-empty")
	}
	r.classes[class.ID] = class
}

// Class returns the Class for id, if registered.
func (r *Registry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Profile returns the stat profile for id, or nil when id is empty or unknown.
// A nil profile means the combatant has no class semantics.
func (r *Registry) Profile(id string) *stats.Profile {
	c, ok := r.classes[id]
	if !ok {
		return nil
	}
	p := c.Profile
	return &p
}

// IDs returns the registered class IDs in table order Warrior, Mage, Archer
// followed by any others in unspecified order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.classes))
	for _, id := range []string{Warrior, Mage, Archer} {
		if _, ok := r.classes[id]; ok {
			out = append(out, id)
		}
	}
	for id := range r.classes {
		if id != Warrior && id != Mage && id != Archer {
			out = append(out, id)
		}
	}
	return out
}
