package combat

import (
	"math"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/effect"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

const (
	// MinHitChance and MaxHitChance bound the result of HitChance.
	MinHitChance = 80.0
	MaxHitChance = 95.0
	// hitSpread is the weight of the dexterity/agility difference term.
	hitSpread = 15.0
	// defenseScale turns defense into a percentage reduction def/(def+defenseScale).
	defenseScale = 100.0
	// MinDamageFraction is the share of attack that always gets through.
	MinDamageFraction = 0.10
	// CriticalMultiplier scales damage on a critical hit.
	CriticalMultiplier = 1.5
)

// HitChance returns the percent chance that an attacker with dexterity dex
// hits a defender with agility agi.
//
// Postcondition: result in [80, 95].
func HitChance(dex, agi float64) float64 {
	chance := MinHitChance
	if sum := dex + agi; sum > 0 {
		chance += (dex - agi) / sum * hitSpread
	}
	return math.Max(MinHitChance, math.Min(MaxHitChance, chance))
}

// Damage applies percentage defense mitigation to attack.
// Negative inputs are treated as zero.
//
// Postcondition: result >= attack * 0.10.
func Damage(attack, defense float64) float64 {
	attack = math.Max(attack, 0)
	defense = math.Max(defense, 0)
	reduction := defense / (defense + defenseScale)
	return math.Max(attack*(1-reduction), attack*MinDamageFraction)
}

// CriticalChance returns the attacker's critical chance minus the defender's
// critical resist.
//
// Postcondition: result in [0, 50].
func CriticalChance(attackerLuck, defenderLuck int) float64 {
	atk := stats.Derive(stats.Attributes{Luck: attackerLuck}, 0, nil).CriticalChance
	resist := stats.Derive(stats.Attributes{Luck: defenderLuck}, 0, nil).CriticalResist
	return math.Max(0, math.Min(stats.MaxCriticalChance, atk-resist))
}

// DodgeChance returns the percent chance that target turns aside an attack
// that would otherwise land: its derived dodge plus active dodge effects.
//
// Postcondition: result in [0, 40].
func DodgeChance(target *Combatant) float64 {
	chance := target.Stats.DodgeChance + effect.DodgeBonus(target.Effects)
	return math.Max(0, math.Min(stats.MaxDodgeChance, chance))
}

// AttackResult holds the outcome of a single attack.
type AttackResult struct {
	AttackerID string
	TargetID   string
	HitCheck   dice.Check
	CritCheck  dice.Check
	Hit        bool
	// Dodged is set on a miss whose roll was within the hit chance, so the
	// target's dodge turned it aside.
	Dodged   bool
	Critical bool
	// Damage is the floored damage to apply to the target; zero on a miss.
	Damage int
}

// ResolveAttack performs the hit check, damage calculation, and critical
// check for attacker against target. multiplier scales the mitigated damage
// (1 for a basic attack, the scaled skill value for a damage skill).
// Active effects on both sides are applied for this resolution only.
//
// One draw decides the attack: it lands when the roll is at most
// HitChance·(1-DodgeChance/100); a roll above that but within HitChance is
// a dodge.
//
// The target is not mutated; the caller applies Damage.
//
// Precondition: attacker, target, and src must be non-nil.
// Postcondition: !Hit implies Damage == 0 and no critical check was drawn.
func ResolveAttack(attacker, target *Combatant, multiplier float64, src dice.Source) AttackResult {
	res := AttackResult{AttackerID: attacker.ID, TargetID: target.ID}

	hit := HitChance(float64(attacker.Attributes.Dexterity), float64(target.Attributes.Agility))
	res.HitCheck = dice.PercentAtMost(src, "hit", hit*(1-DodgeChance(target)/100))
	if !res.HitCheck.Passed {
		res.Dodged = res.HitCheck.Roll <= hit
		return res
	}
	res.Hit = true

	attack := attacker.Stats.Attack * effect.AttackMultiplier(attacker.Effects)
	defense := target.Stats.Defense * effect.DefenseMultiplier(target.Effects)
	raw := Damage(attack, defense) * multiplier * effect.DamageTakenMultiplier(target.Effects)

	res.CritCheck = dice.PercentBelow(src, "critical", CriticalChance(attacker.Attributes.Luck, target.Attributes.Luck))
	if res.CritCheck.Passed {
		res.Critical = true
		raw *= CriticalMultiplier
	}

	res.Damage = int(math.Floor(raw))
	if res.Damage < 1 && raw > 0 {
		res.Damage = 1
	}
	return res
}
