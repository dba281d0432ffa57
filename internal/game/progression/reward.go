package progression

const (
	// gapTier is the level gap that costs one penalty step.
	gapTier = 10
	// penaltyPerTier is the percent of reward lost per gap tier.
	penaltyPerTier = 10
)

// Reward is the experience and gold earned from one kill after penalties.
type Reward struct {
	Experience int
	Gold       int
	// PenaltyPercent is the share of the base reward removed, 0..100.
	PenaltyPercent int
}

// ApplyLevelPenalty reduces base rewards when the player out-levels the
// monster: every full 10 levels of gap removes 10% of both, floored.
//
// Postcondition: playerLevel <= monsterLevel returns the inputs unchanged;
// results are never negative.
func ApplyLevelPenalty(baseExp, baseGold, monsterLevel, playerLevel int) Reward {
	gap := playerLevel - monsterLevel
	if gap <= 0 {
		return Reward{Experience: baseExp, Gold: baseGold}
	}
	pct := min(100, gap/gapTier*penaltyPerTier)
	keep := func(v int) int {
		return max(0, v*(100-pct)/100)
	}
	return Reward{Experience: keep(baseExp), Gold: keep(baseGold), PenaltyPercent: pct}
}
