// Package pvp resolves autonomous player-versus-player battles and the
// honor and rank bookkeeping that follows them.
package pvp

import (
	"errors"
	"fmt"
	"time"
)

const (
	winBase          = 25
	lossBase         = 15
	streakStep       = 5
	maxWinStreakGain = 50
	maxLossStreak    = 30
	// honorGapStep is the honor difference worth one point of adjustment.
	honorGapStep = 20
	maxAdjust    = 10
)

// Stats is a character's PvP record.
//
// Invariant: HonorPoints >= 0; WinStreak <= BestStreak.
type Stats struct {
	HonorPoints int
	Wins        int
	Losses      int
	WinStreak   int
	BestStreak  int
	// LastBattle is the zero time when the character has never fought.
	LastBattle time.Time
}

// Rank returns the tier for s.HonorPoints.
func (s Stats) Rank() Rank { return RankFor(s.HonorPoints) }

// TotalBattles returns the number of finished battles.
func (s Stats) TotalBattles() int { return s.Wins + s.Losses }

// HonorDelta returns the honor change for both sides of a finished battle,
// using the streaks held before the battle. The adjustment is proportional
// to the honor gap and favors whichever side was behind.
//
// Postcondition: gain >= 1; loss <= -1.
func HonorDelta(winner, loser Stats) (gain, loss int) {
	adj := (loser.HonorPoints - winner.HonorPoints) / honorGapStep
	adj = max(-maxAdjust, min(adj, maxAdjust))

	gain = winBase + min(winner.WinStreak*streakStep, maxWinStreakGain) + adj
	lost := lossBase + min(loser.WinStreak*streakStep, maxLossStreak) + adj
	return max(gain, 1), -max(lost, 1)
}

// Result is the bookkeeping outcome applied to both records.
type Result struct {
	WinnerGain int
	LoserLoss  int
	WinnerRank Rank
	LoserRank  Rank
	// Promoted and Demoted report rank changes caused by this battle.
	Promoted bool
	Demoted  bool
}

// Apply updates both records for a battle finished at at.
//
// Postcondition: winner.WinStreak incremented; loser.WinStreak == 0;
// loser.HonorPoints >= 0; both LastBattle == at.
func Apply(winner, loser *Stats, at time.Time) Result {
	gain, loss := HonorDelta(*winner, *loser)
	before := [2]Rank{winner.Rank(), loser.Rank()}

	winner.HonorPoints += gain
	winner.Wins++
	winner.WinStreak++
	winner.BestStreak = max(winner.BestStreak, winner.WinStreak)
	winner.LastBattle = at

	loser.HonorPoints = max(0, loser.HonorPoints+loss)
	loser.Losses++
	loser.WinStreak = 0
	loser.LastBattle = at

	res := Result{
		WinnerGain: gain,
		LoserLoss:  loss,
		WinnerRank: winner.Rank(),
		LoserRank:  loser.Rank(),
	}
	res.Promoted = res.WinnerRank.Tier > before[0].Tier
	res.Demoted = res.LoserRank.Tier < before[1].Tier
	return res
}

// ErrOnCooldown is matched by every *CooldownError.
var ErrOnCooldown = errors.New("pvp cooldown active")

// CooldownError reports how long until the character may fight again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("pvp cooldown active: %s remaining", e.Remaining.Round(time.Second))
}

// Is reports whether target is ErrOnCooldown.
func (e *CooldownError) Is(target error) bool { return target == ErrOnCooldown }

// CheckCooldown returns a *CooldownError when s fought less than cooldown before now.
func CheckCooldown(s Stats, now time.Time, cooldown time.Duration) error {
	if s.LastBattle.IsZero() || cooldown <= 0 {
		return nil
	}
	if wait := s.LastBattle.Add(cooldown).Sub(now); wait > 0 {
		return &CooldownError{Remaining: wait}
	}
	return nil
}
