package effect

// Multiplier returns the combined multiplier for mod from all active effects.
// Attack and defense effects multiply by (1+Value); damage reduction
// multiplies by (1-Value), floored at zero. A nil Set yields 1. Dodge
// effects are additive, see DodgeBonus.
//
// Postcondition: Returns >= 0.
func Multiplier(s *Set, mod Modifier) float64 {
	m := 1.0
	if s == nil {
		return m
	}
	for _, a := range s.effects {
		if a.Modifier != mod {
			continue
		}
		if mod == ModDamageReduction {
			m *= max(1-a.Value, 0)
			continue
		}
		m *= max(1+a.Value, 0)
	}
	return m
}

// AttackMultiplier is Multiplier(s, ModAttack).
func AttackMultiplier(s *Set) float64 { return Multiplier(s, ModAttack) }

// DefenseMultiplier is Multiplier(s, ModDefense).
func DefenseMultiplier(s *Set) float64 { return Multiplier(s, ModDefense) }

// DodgeBonus returns the dodge percentage points granted by active dodge
// effects: each contributes Value·100. A nil Set yields 0.
//
// Postcondition: Returns >= 0.
func DodgeBonus(s *Set) float64 {
	if s == nil {
		return 0
	}
	bonus := 0.0
	for _, a := range s.effects {
		if a.Modifier == ModDodge {
			bonus += a.Value * 100
		}
	}
	return max(bonus, 0)
}

// DamageTakenMultiplier is Multiplier(s, ModDamageReduction).
func DamageTakenMultiplier(s *Set) float64 { return Multiplier(s, ModDamageReduction) }

// DamageOverTime returns the active damage-over-time effects ordered by skill ID.
func DamageOverTime(s *Set) []Active {
	if s == nil {
		return nil
	}
	var out []Active
	for _, a := range s.All() {
		if a.Modifier == ModDamageOverTime && a.TickDamage > 0 {
			out = append(out, a)
		}
	}
	return out
}
