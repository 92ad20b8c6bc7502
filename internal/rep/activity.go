package rep

import (
	"fmt"
	"math"
)

// ActivityConfig holds the weights and thresholds of the activity scorer.
// The thresholds are empirical; they are kept configurable rather than derived.
type ActivityConfig struct {
	VelocityWeight   float64 // per degree of frame-to-frame angle change
	RangeWeight      float64 // per degree of observed range since the last rep
	ConfidenceWeight float64 // per unit of combined joint visibility
	Alpha            float64 // weight of the new raw signal in the exponential average
	MissDecay        float64 // multiplier applied on frames without the limb

	// MinConfidence is the combined visibility at or below which a frame does
	// not feed the score; the score decays as if the limb were missing.
	MinConfidence float64

	ActiveThreshold float64 // score above which a limb may be active
	MinVelocity     float64 // velocity above which a resting limb is active
	BothMargin      float64 // score gap at or below which both limbs are active
}

// DefaultActivityConfig returns the tuned activity scorer defaults.
func DefaultActivityConfig() ActivityConfig {
	return ActivityConfig{
		VelocityWeight:   0.4,
		RangeWeight:      0.3,
		ConfidenceWeight: 10,
		Alpha:            0.2,
		MissDecay:        0.85,
		MinConfidence:    0,
		ActiveThreshold:  3,
		MinVelocity:      1,
		BothMargin:       2,
	}
}

// Validate reports whether the activity settings are usable.
func (c ActivityConfig) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: activity alpha must be within (0,1], got %f", ErrInvalidConfig, c.Alpha)
	}
	if c.MissDecay < 0 || c.MissDecay > 1 {
		return fmt.Errorf("%w: activity miss decay must be within [0,1], got %f", ErrInvalidConfig, c.MissDecay)
	}
	if c.VelocityWeight < 0 || c.RangeWeight < 0 || c.ConfidenceWeight < 0 {
		return fmt.Errorf("%w: activity weights must be non-negative", ErrInvalidConfig)
	}
	if c.ActiveThreshold < 0 || c.MinVelocity < 0 || c.BothMargin < 0 {
		return fmt.Errorf("%w: activity thresholds must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// ActiveLimb names the limb(s) a UI should emphasize.
type ActiveLimb string

const (
	ActiveNone  ActiveLimb = "none"
	ActiveRight ActiveLimb = "right"
	ActiveLeft  ActiveLimb = "left"
	ActiveBoth  ActiveLimb = "both"
)

// Arbitrate picks the active limb from the two limb snapshots. When both are
// active, a score gap larger than margin selects the higher scorer alone.
func Arbitrate(right, left LimbState, margin float64) ActiveLimb {
	switch {
	case right.Active && left.Active:
		if math.Abs(right.ActivityScore-left.ActivityScore) > margin {
			if right.ActivityScore > left.ActivityScore {
				return ActiveRight
			}
			return ActiveLeft
		}
		return ActiveBoth
	case right.Active:
		return ActiveRight
	case left.Active:
		return ActiveLeft
	default:
		return ActiveNone
	}
}

// score folds one frame into the limb's activity score.
func (l *Limb) score(obs Observation) {
	cfg := l.cfg.Activity
	if !obs.Observed || obs.Confidence <= cfg.MinConfidence {
		l.activityScore *= cfg.MissDecay
		return
	}

	l.velocity = math.Abs(obs.Angle - l.lastAngle)
	spread := l.maxAngle - l.minAngle
	raw := l.velocity*cfg.VelocityWeight + spread*cfg.RangeWeight + obs.Confidence*cfg.ConfidenceWeight
	l.activityScore = raw*cfg.Alpha + l.activityScore*(1-cfg.Alpha)
	l.lastAngle = obs.Angle
}

// Active reports whether the limb is moving enough to be emphasized: a high
// score and either mid-cycle or moving fast at rest.
func (l *Limb) Active() bool {
	cfg := l.cfg.Activity
	return l.activityScore > cfg.ActiveThreshold && (l.state != Down || l.velocity > cfg.MinVelocity)
}
