// Package stats maps base attributes, level, and class to derived combat stats.
//
// Everything in this package is pure: no randomness, no I/O, no failure mode.
package stats

// DefaultAttribute is substituted for any attribute missing from boundary input.
const DefaultAttribute = 10

// Attributes holds the five base attribute values of a combatant.
//
// Invariant: every field is >= 0 once Clamp has been applied.
type Attributes struct {
	Strength  int `yaml:"strength"`
	Magic     int `yaml:"magic"`
	Dexterity int `yaml:"dexterity"`
	Agility   int `yaml:"agility"`
	Luck      int `yaml:"luck"`
}

// Clamp returns a copy with negative fields raised to zero.
//
// Postcondition: every field of the result is >= 0.
func (a Attributes) Clamp() Attributes {
	return Attributes{
		Strength:  max(a.Strength, 0),
		Magic:     max(a.Magic, 0),
		Dexterity: max(a.Dexterity, 0),
		Agility:   max(a.Agility, 0),
		Luck:      max(a.Luck, 0),
	}
}

// Add returns a+delta, clamped. Equipment bonuses are applied this way
// before stats are derived.
func (a Attributes) Add(delta Attributes) Attributes {
	return Attributes{
		Strength:  a.Strength + delta.Strength,
		Magic:     a.Magic + delta.Magic,
		Dexterity: a.Dexterity + delta.Dexterity,
		Agility:   a.Agility + delta.Agility,
		Luck:      a.Luck + delta.Luck,
	}.Clamp()
}

// Total returns the sum of all five attributes.
func (a Attributes) Total() int {
	return a.Strength + a.Magic + a.Dexterity + a.Agility + a.Luck
}

// PartialAttributes is the boundary shape for attribute input where any field
// may be absent. Normalize turns it into the canonical Attributes.
type PartialAttributes struct {
	Strength  *int `yaml:"strength" json:"strength,omitempty"`
	Magic     *int `yaml:"magic" json:"magic,omitempty"`
	Dexterity *int `yaml:"dexterity" json:"dexterity,omitempty"`
	Agility   *int `yaml:"agility" json:"agility,omitempty"`
	Luck      *int `yaml:"luck" json:"luck,omitempty"`
}

// Normalize fills missing fields with DefaultAttribute and clamps negatives.
// An explicit zero is kept as zero.
//
// Postcondition: every field of the result is >= 0.
func (p PartialAttributes) Normalize() Attributes {
	pick := func(v *int) int {
		if v == nil {
			return DefaultAttribute
		}
		return *v
	}
	return Attributes{
		Strength:  pick(p.Strength),
		Magic:     pick(p.Magic),
		Dexterity: pick(p.Dexterity),
		Agility:   pick(p.Agility),
		Luck:      pick(p.Luck),
	}.Clamp()
}

// Attribute names as used by allocation commands and storage columns.
const (
	AttrStrength  = "strength"
	AttrMagic     = "magic"
	AttrDexterity = "dexterity"
	AttrAgility   = "agility"
	AttrLuck      = "luck"
)

// AttributeNames lists the five attribute names in display order.
var AttributeNames = []string{AttrStrength, AttrMagic, AttrDexterity, AttrAgility, AttrLuck}

// Raise returns a copy with the named attribute increased by n.
//
// Postcondition: ok is false and a is returned unchanged when name is unknown.
func (a Attributes) Raise(name string, n int) (out Attributes, ok bool) {
	out = a
	switch name {
	case AttrStrength:
		out.Strength += n
	case AttrMagic:
		out.Magic += n
	case AttrDexterity:
		out.Dexterity += n
	case AttrAgility:
		out.Agility += n
	case AttrLuck:
		out.Luck += n
	default:
		return a, false
	}
	return out.Clamp(), true
}
