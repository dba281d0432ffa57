package skill

import (
	"errors"
	"fmt"
)

const (
	// MinMastery is the mastery level of a newly learned skill.
	MinMastery = 1
	// MaxMastery is the highest purchasable mastery level.
	MaxMastery = 10
	// masteryStep is the flat bonus per mastery level above the first.
	masteryStep = 0.1
	// goldPerMastery scales the upgrade cost by the current mastery level.
	goldPerMastery = 100
)

var (
	// ErrNotEnoughGold is returned when an upgrade costs more than the caller has.
	ErrNotEnoughGold = errors.New("not enough gold")
	// ErrMasteryMaxed is returned when the skill is already at MaxMastery.
	ErrMasteryMaxed = errors.New("mastery already at maximum")
)

// EffectValue scales base by mastery: base·(1 + 0.1·(mastery-1)).
// Mastery below MinMastery is treated as MinMastery.
//
// Postcondition: EffectValue(b, 1) == b.
func EffectValue(base float64, mastery int) float64 {
	mastery = max(mastery, MinMastery)
	return base * (1 + masteryStep*float64(mastery-1))
}

// UpgradeCost returns the gold needed to raise mastery by one level.
func UpgradeCost(mastery int) int {
	return goldPerMastery * max(mastery, MinMastery)
}

// Upgrade spends gold to raise mastery by one.
//
// Postcondition: on success newGold == gold - UpgradeCost(mastery) and
// newMastery == mastery+1; on error both inputs are returned unchanged.
func Upgrade(gold, mastery int) (newGold, newMastery int, err error) {
	mastery = max(mastery, MinMastery)
	if mastery >= MaxMastery {
		return gold, mastery, ErrMasteryMaxed
	}
	cost := UpgradeCost(mastery)
	if gold < cost {
		return gold, mastery, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughGold, cost, gold)
	}
	return gold - cost, mastery + 1, nil
}
