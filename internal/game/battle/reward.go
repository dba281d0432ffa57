package battle

import "github.com/cory-johannsen/arena/internal/game/progression"

// RewardInput describes a kill to a RewardModifier.
type RewardInput struct {
	Base         progression.Reward
	TemplateID   string
	MonsterLevel int
	PlayerLevel  int
	PlayerClass  string
}

// RewardModifier adjusts kill rewards after the level-gap penalty.
// Implementations must not return negative values and must fall back to
// in.Base on failure.
type RewardModifier interface {
	ModifyReward(in RewardInput) progression.Reward
}
