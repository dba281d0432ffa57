package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged random checks.
// Every check is logged at debug level with label, roll, threshold, and verdict.
//
// Roller itself satisfies Source and Recorder, so it can be handed to any
// engine function in place of the raw Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each check to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Record logs c at debug level.
func (r *Roller) Record(c Check) {
	r.logger.Debug("dice check",
		zap.String("label", c.Label),
		zap.Float64("roll", c.Roll),
		zap.Float64("threshold", c.Threshold),
		zap.Bool("passed", c.Passed),
	)
}
