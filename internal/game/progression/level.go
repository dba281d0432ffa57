package progression

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

const (
	// PointsPerLevel is the number of attribute points granted per level-up.
	PointsPerLevel = 5
	// inRoundLossRate is the share of current experience lost on a death in battle.
	inRoundLossRate = 0.10
	// idleLossRate is the share of experience-to-next lost to an idle strike.
	idleLossRate = 0.01
)

// ErrNotEnoughPoints is returned when an allocation exceeds the unspent points.
var ErrNotEnoughPoints = errors.New("not enough attribute points")

// LevelUp summarizes the levels gained by one GrantExperience call.
type LevelUp struct {
	From   int
	To     int
	Points int
}

// Gained reports whether any level was gained.
func (l LevelUp) Gained() bool { return l.To > l.From }

// GrantExperience adds gained experience to c and processes every level it
// crosses: each level-up subtracts the threshold, increments Level, and
// grants PointsPerLevel attribute points. After any level-up health and mana
// are restored to the new maximums.
//
// Precondition: gained >= 0.
// Postcondition: Level never decreases; 0 <= Experience < curve.ToNext(Level).
func GrantExperience(c *character.Character, gained int, curve Curve, classes *ruleset.Registry) LevelUp {
	up := LevelUp{From: c.Level, To: c.Level}
	c.Experience = max(0, c.Experience+max(gained, 0))
	for c.Experience >= curve.ToNext(c.Level) {
		c.Experience -= curve.ToNext(c.Level)
		c.Level++
		c.AttributePoints += PointsPerLevel
		up.Points += PointsPerLevel
	}
	up.To = c.Level
	if up.Gained() {
		c.RestoreVitals(classes)
	}
	return up
}

// DeathPath identifies how the player died.
type DeathPath int

const (
	// DeathInRound is a death from a counter-attack during a player round.
	DeathInRound DeathPath = iota
	// DeathIdle is a death from a monster strike while the player was idle.
	DeathIdle
)

// DeathLoss returns the experience c loses for dying by path.
// In-round deaths cost floor(experience·0.1); idle deaths cost
// floor(experienceToNext·0.01).
//
// Postcondition: 0 <= result.
func DeathLoss(c *character.Character, path DeathPath, curve Curve) int {
	if path == DeathIdle {
		return int(math.Floor(float64(curve.ToNext(c.Level)) * idleLossRate))
	}
	return int(math.Floor(float64(max(c.Experience, 0)) * inRoundLossRate))
}

// ApplyDeath deducts the death loss from c and returns the amount removed.
//
// Postcondition: Experience >= 0; Level unchanged.
func ApplyDeath(c *character.Character, path DeathPath, curve Curve) int {
	loss := min(DeathLoss(c, path, curve), max(c.Experience, 0))
	c.Experience = max(0, c.Experience-loss)
	return loss
}

// Allocate spends n unspent attribute points on the named attribute.
//
// Postcondition: on error c is unchanged.
func Allocate(c *character.Character, attribute string, n int) error {
	if n <= 0 {
		return fmt.Errorf("points to allocate must be positive, got %d", n)
	}
	if n > c.AttributePoints {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPoints, c.AttributePoints, n)
	}
	raised, ok := c.Attributes.Raise(attribute, n)
	if !ok {
		return fmt.Errorf("unknown attribute %q (want one of %v)", attribute, stats.AttributeNames)
	}
	c.Attributes = raised
	c.AttributePoints -= n
	return nil
}
