package skill

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/effect"
)

// ErrSkillUnavailable is matched by every *UnavailableError.
var ErrSkillUnavailable = errors.New("skill unavailable")

// Reason says why a skill cannot be used this turn.
type Reason string

const (
	ReasonUnknown  Reason = "unknown skill"
	ReasonLevel    Reason = "level too low"
	ReasonClass    Reason = "wrong class"
	ReasonMana     Reason = "not enough mana"
	ReasonCooldown Reason = "on cooldown"
)

// UnavailableError is a non-fatal rejection of a skill use.
type UnavailableError struct {
	SkillID string
	Reason  Reason
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("skill %q unavailable: %s", e.SkillID, e.Reason)
}

// Is reports whether target is ErrSkillUnavailable.
func (e *UnavailableError) Is(target error) bool { return target == ErrSkillUnavailable }

const (
	healPerStrength = 1.5
	healPerLevel    = 3.0
)

// Result describes what a successful skill use did.
type Result struct {
	Skill *Skill
	// Value is the mastery-scaled effect value.
	Value float64
	// Attack is set for damage skills.
	Attack *combat.AttackResult
	// Healed is the health actually restored by a heal skill.
	Healed int
	// Applied is the effect placed on the caster or the target.
	Applied *effect.Active
}

// Check reports whether caster may use s now. The checks run in the order
// level, class, mana, cooldown.
//
// Postcondition: Returns nil or an *UnavailableError.
func Check(caster *combat.Combatant, s *Skill, cds *Cooldowns) error {
	switch {
	case caster.Level < s.MinLevel:
		return &UnavailableError{SkillID: s.ID, Reason: ReasonLevel}
	case caster.Class != s.Class:
		return &UnavailableError{SkillID: s.ID, Reason: ReasonClass}
	case caster.Mana < s.ManaCost:
		return &UnavailableError{SkillID: s.ID, Reason: ReasonMana}
	case cds.Remaining(s.ID) > 0:
		return &UnavailableError{SkillID: s.ID, Reason: ReasonCooldown}
	}
	return nil
}

// Use casts s from caster at target with the given mastery level.
// Damage and debuffs land on target; heals and buffs land on caster.
//
// Precondition: caster, target, s, cds, and src must be non-nil.
// Postcondition: on error nothing is mutated; on success caster mana is
// reduced by s.ManaCost and the cooldown for s is set to s.Cooldown.
func Use(caster, target *combat.Combatant, s *Skill, mastery int, cds *Cooldowns, src dice.Source) (Result, error) {
	if err := Check(caster, s, cds); err != nil {
		return Result{}, err
	}
	value := EffectValue(s.Value, mastery)

	res := Result{Skill: s, Value: value}
	switch s.Effect {
	case EffectDamage:
		atk := combat.ResolveAttack(caster, target, value, src)
		target.ApplyDamage(atk.Damage)
		res.Attack = &atk
	case EffectHeal:
		amount := math.Floor(caster.Stats.MaxHealth*value +
			float64(caster.Attributes.Strength)*healPerStrength +
			float64(caster.Level)*healPerLevel)
		res.Healed = caster.Heal(int(amount))
	case EffectBuff:
		a := effect.Active{SkillID: s.ID, Name: s.Name, Kind: effect.Buff, Modifier: s.Modifier, Value: value, Remaining: s.Duration}
		if err := caster.Effects.Apply(a); err != nil {
			return Result{}, fmt.Errorf("applying %s: %w", s.ID, err)
		}
		res.Applied = &a
	case EffectDebuff:
		a := effect.Active{
			SkillID:    s.ID,
			Name:       s.Name,
			Kind:       effect.Debuff,
			Modifier:   s.Modifier,
			Value:      value,
			TickDamage: int(math.Floor(caster.Stats.Attack * value)),
			Remaining:  s.Duration,
		}
		if err := target.Effects.Apply(a); err != nil {
			return Result{}, fmt.Errorf("applying %s: %w", s.ID, err)
		}
		res.Applied = &a
	}

	caster.SpendMana(s.ManaCost)
	cds.Start(s.ID, s.Cooldown)
	return res, nil
}
