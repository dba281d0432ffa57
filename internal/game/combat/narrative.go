package combat

import "fmt"

// DescribeAttack renders res as one battle log line. with names the skill
// used, or is empty for a basic attack.
func DescribeAttack(attacker, target *Combatant, res AttackResult, with string) string {
	verb := "attacks"
	if with != "" {
		verb = "uses " + with + " on"
	}
	switch {
	case res.Dodged:
		return fmt.Sprintf("%s %s %s, but %s dodges!", attacker.Name, verb, target.Name, target.Name)
	case !res.Hit:
		return fmt.Sprintf("%s %s %s, but misses.", attacker.Name, verb, target.Name)
	case res.Critical:
		return fmt.Sprintf("%s %s %s: critical hit for %d damage!", attacker.Name, verb, target.Name, res.Damage)
	default:
		return fmt.Sprintf("%s %s %s for %d damage.", attacker.Name, verb, target.Name, res.Damage)
	}
}
