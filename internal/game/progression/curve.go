// Package progression computes rewards, experience, level-ups, and the
// attribute points they grant.
package progression

import "fmt"

// Curve selects the experience-to-next-level formula.
type Curve string

const (
	// CurveStandard requires level·500 experience per level.
	CurveStandard Curve = "standard"
	// CurveLegacy requires level·100 experience per level.
	CurveLegacy Curve = "legacy"
)

// ParseCurve validates a configured curve name. Empty means CurveStandard.
func ParseCurve(name string) (Curve, error) {
	switch Curve(name) {
	case "", CurveStandard:
		return CurveStandard, nil
	case CurveLegacy:
		return CurveLegacy, nil
	}
	return "", fmt.Errorf("unknown experience curve %q", name)
}

// ToNext returns the experience needed to advance from level.
//
// Postcondition: result >= 1 for every level.
func (c Curve) ToNext(level int) int {
	per := 500
	if c == CurveLegacy {
		per = 100
	}
	return max(level, 1) * per
}
