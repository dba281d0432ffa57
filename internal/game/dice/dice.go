// Package dice provides the randomness abstraction and check-result types
// for the arena combat engine.
//
// Every random decision the engine makes (hit, critical, loot, spawn pick)
// is drawn from a Source at a well-defined point so that a fixed Source
// replays a battle exactly.
package dice

import "fmt"

// percentResolution is the number of discrete outcomes used for percent and
// unit draws. A resolution of 10000 gives two decimal places on [0,100).
const percentResolution = 10000

// Source is the randomness provider for all engine decisions.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Recorder is implemented by sources that want an audit trail of checks.
// Percent, Chance, and Pick report to it when the Source satisfies it.
type Recorder interface {
	Record(c Check)
}

// Check holds the full audit trail for one random decision.
//
// Postcondition: Passed reflects Roll compared against Threshold.
type Check struct {
	Label     string  // decision point, e.g. "hit" or "loot:wolf_pelt"
	Roll      float64 // the uniform draw
	Threshold float64 // the value the draw was compared against
	Passed    bool
}

// String returns a human-readable audit string in the format:
//
//	"hit: 42.17 <= 85.00 pass"
//
// Precondition: c.Label is non-empty.
func (c Check) String() string {
	if c.Label == "" {
		panic("dice: Check.String() precondition violated: Label must be non-empty")
	}
	verdict := "fail"
	if c.Passed {
		verdict = "pass"
	}
	return fmt.Sprintf("%s: %.2f vs %.2f %s", c.Label, c.Roll, c.Threshold, verdict)
}

// PercentRoll draws a uniform value in [0, 100).
//
// Postcondition: 0 <= result < 100.
func PercentRoll(src Source) float64 {
	return float64(src.Intn(percentResolution)) / 100
}

// UnitRoll draws a uniform value in [0, 1).
//
// Postcondition: 0 <= result < 1.
func UnitRoll(src Source) float64 {
	return float64(src.Intn(percentResolution)) / percentResolution
}

// PercentAtMost draws in [0,100) and passes when the draw is <= chance.
// Used for hit checks.
func PercentAtMost(src Source, label string, chance float64) Check {
	roll := PercentRoll(src)
	return record(src, Check{Label: label, Roll: roll, Threshold: chance, Passed: roll <= chance})
}

// PercentBelow draws in [0,100) and passes when the draw is strictly below chance.
// A chance of 0 never passes. Used for critical checks.
func PercentBelow(src Source, label string, chance float64) Check {
	roll := PercentRoll(src)
	return record(src, Check{Label: label, Roll: roll, Threshold: chance, Passed: roll < chance})
}

// Chance draws in [0,1) and passes when the draw is strictly below p.
// Used for loot drops.
func Chance(src Source, label string, p float64) Check {
	roll := UnitRoll(src)
	return record(src, Check{Label: label, Roll: roll, Threshold: p, Passed: roll < p})
}

// Pick returns a uniform index in [0, n).
//
// Precondition: n > 0.
func Pick(src Source, label string, n int) int {
	idx := src.Intn(n)
	record(src, Check{Label: label, Roll: float64(idx), Threshold: float64(n), Passed: true})
	return idx
}

func record(src Source, c Check) Check {
	if r, ok := src.(Recorder); ok {
		r.Record(c)
	}
	return c
}
