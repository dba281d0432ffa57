package pvp

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
)

// DefaultRoundCap is the number of rounds after which a battle is decided on
// remaining health.
const DefaultRoundCap = 20

// Outcome is the result of a simulated battle.
type Outcome struct {
	WinnerID string
	LoserID  string
	Rounds   int
	// Decision is true when the round cap ended the battle.
	Decision bool
	Log      []string
}

// Simulate runs an autonomous battle between p1 and p2. Each round p1
// attacks, then p2 attacks if still standing. After roundCap rounds the side
// with strictly more health wins and a tie goes to p1. A roundCap <= 0 uses
// DefaultRoundCap.
//
// Both combatants are mutated; callers pass battle snapshots.
//
// Precondition: p1, p2, and src must be non-nil with distinct IDs.
// Postcondition: WinnerID is p1.ID or p2.ID; Rounds <= roundCap.
func Simulate(p1, p2 *combat.Combatant, roundCap int, src dice.Source) Outcome {
	if roundCap <= 0 {
		roundCap = DefaultRoundCap
	}
	out := Outcome{}
	out.Log = append(out.Log, fmt.Sprintf("%s (HP %d) challenges %s (HP %d)!", p1.Name, p1.Health, p2.Name, p2.Health))

	finish := func(w, l *combat.Combatant, line string) Outcome {
		out.WinnerID, out.LoserID = w.ID, l.ID
		out.Log = append(out.Log, line)
		return out
	}

	for round := 1; round <= roundCap; round++ {
		out.Rounds = round
		out.Log = append(out.Log, fmt.Sprintf("Round %d", round))

		if won := exchange(p1, p2, src, &out.Log); won {
			return finish(p1, p2, fmt.Sprintf("%s defeats %s!", p1.Name, p2.Name))
		}
		if won := exchange(p2, p1, src, &out.Log); won {
			return finish(p2, p1, fmt.Sprintf("%s defeats %s!", p2.Name, p1.Name))
		}
	}

	out.Decision = true
	if p2.Health > p1.Health {
		return finish(p2, p1, fmt.Sprintf("Time! %s wins on health, %d to %d.", p2.Name, p2.Health, p1.Health))
	}
	return finish(p1, p2, fmt.Sprintf("Time! %s wins on health, %d to %d.", p1.Name, p1.Health, p2.Health))
}

// exchange resolves one attack and reports whether it killed the target.
func exchange(attacker, target *combat.Combatant, src dice.Source, log *[]string) bool {
	res := combat.ResolveAttack(attacker, target, 1, src)
	target.ApplyDamage(res.Damage)
	*log = append(*log, combat.DescribeAttack(attacker, target, res, ""))
	return target.IsDead()
}
