package stats

import "math"

// Caps on percentage-valued stats.
const (
	BaseAccuracy      = 80.0
	MaxAccuracyBonus  = 15.0
	MaxDodgeChance    = 40.0
	MaxCriticalChance = 50.0
	baseHealth        = 50.0
	baseMana          = 30.0
	healthPerStrength = 5.0
	healthPerLevel    = 10.0
	manaPerMagic      = 3.0
	manaPerLevel      = 5.0
	attackPerLevel    = 3.0
	defensePerLevel   = 2.0
	accuracyPerDex    = 0.003
	dodgePerAgility   = 0.01
	critPerLuck       = 0.3
	critResistPerLuck = 0.2
)

// AttackWeights scales strength, magic, and dexterity into attack.
type AttackWeights struct {
	Strength  float64 `yaml:"strength"`
	Magic     float64 `yaml:"magic"`
	Dexterity float64 `yaml:"dexterity"`
}

// BlendedWeights is used for combatants without a class: the average of the
// three class weightings.
var BlendedWeights = AttackWeights{Strength: 2.0 / 3, Magic: 2.5 / 3, Dexterity: 2.0 / 3}

// Profile is the class-specific part of stat derivation.
type Profile struct {
	HealthPerLevel  float64       `yaml:"health_per_level"`
	Attack          AttackWeights `yaml:"attack"`
	DefenseStrength float64       `yaml:"defense_strength"`
}

// DerivedStats holds combat numbers computed from attributes, level, and class.
// Values are not floored here; callers floor at consumption time.
//
// Invariant: DodgeChance in [0,40]; CriticalChance in [0,50]; Accuracy in [80,95].
type DerivedStats struct {
	MaxHealth      float64
	MaxMana        float64
	Attack         float64
	Defense        float64
	Accuracy       float64
	DodgeChance    float64
	CriticalChance float64
	CriticalResist float64
}

// HealthCap returns MaxHealth floored to an integer.
func (d DerivedStats) HealthCap() int { return int(math.Floor(d.MaxHealth)) }

// ManaCap returns MaxMana floored to an integer.
func (d DerivedStats) ManaCap() int { return int(math.Floor(d.MaxMana)) }

// Derive computes DerivedStats. A nil profile skips class bonuses and uses
// BlendedWeights for attack.
//
// Precondition: none; negative attributes and levels are clamped to zero.
// Postcondition: the DerivedStats invariants hold.
func Derive(attrs Attributes, level int, profile *Profile) DerivedStats {
	a := attrs.Clamp()
	lvl := float64(max(level, 0))

	weights := BlendedWeights
	var classHealth, defenseStr float64
	if profile != nil {
		weights = profile.Attack
		classHealth = profile.HealthPerLevel * lvl
		defenseStr = profile.DefenseStrength
	}

	str := float64(a.Strength)
	return DerivedStats{
		MaxHealth: baseHealth + str*healthPerStrength + lvl*healthPerLevel + classHealth,
		MaxMana:   baseMana + float64(a.Magic)*manaPerMagic + lvl*manaPerLevel,
		Attack: str*weights.Strength +
			float64(a.Magic)*weights.Magic +
			float64(a.Dexterity)*weights.Dexterity +
			lvl*attackPerLevel,
		Defense:        lvl*defensePerLevel + str*defenseStr,
		Accuracy:       BaseAccuracy + math.Min(MaxAccuracyBonus, float64(a.Dexterity)*accuracyPerDex),
		DodgeChance:    math.Min(MaxDodgeChance, float64(a.Agility)*dodgePerAgility),
		CriticalChance: math.Min(MaxCriticalChance, float64(a.Luck)*critPerLuck),
		CriticalResist: float64(a.Luck) * critResistPerLuck,
	}
}
