package rep

import (
	"fmt"
	"time"
)

// State is the phase of a curl cycle.
type State int

const (
	// Down is the extended phase; every limb starts here.
	Down State = iota
	// Up is the curled phase.
	Up
)

// String returns the lowercase phase name.
func (s State) String() string {
	switch s {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Side identifies an arm.
type Side string

const (
	Right Side = "right"
	Left  Side = "left"
)

// restAngle is the angle of a fully extended arm, used for fresh extremes.
const restAngle = 180.0

// Observation is what one frame did to a limb.
type Observation struct {
	Observed     bool    // the limb had usable landmarks this frame
	Angle        float64 // smoothed elbow angle, valid when Observed
	Confidence   float64 // combined joint visibility, valid when Observed
	RepCompleted bool
}

// LimbState is a read-only snapshot of a limb tracker.
type LimbState struct {
	Side           Side      `json:"side"`
	State          State     `json:"state"`
	AngleHistory   []float64 `json:"angle_history"`
	MinAngle       float64   `json:"min_angle"`
	MaxAngle       float64   `json:"max_angle"`
	LastRepTime    time.Time `json:"last_rep_time"`
	HasReachedUp   bool      `json:"has_reached_up"`
	HasReachedDown bool      `json:"has_reached_down"`
	Velocity       float64   `json:"velocity"`
	LastAngle      float64   `json:"last_angle"`
	ActivityScore  float64   `json:"activity_score"`
	Active         bool      `json:"active"`
}

// Limb tracks one arm through curl cycles. It is not safe for concurrent use.
type Limb struct {
	side     Side
	cfg      Config
	smoother *Smoother

	state          State
	minAngle       float64
	maxAngle       float64
	lastRepTime    time.Time
	hasReachedUp   bool
	hasReachedDown bool
	velocity       float64
	lastAngle      float64
	activityScore  float64
}

// NewLimb creates a limb tracker in its initial state.
func NewLimb(side Side, cfg Config) (*Limb, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s limb: %w", side, err)
	}
	l := &Limb{
		side:     side,
		cfg:      cfg,
		smoother: NewSmoother(cfg.SmoothingWindow),
	}
	l.Reset()
	return l, nil
}

// Side returns which arm this limb tracks.
func (l *Limb) Side() Side {
	return l.side
}

// Reset restores the limb to its initial state and clears the angle history.
func (l *Limb) Reset() {
	l.smoother.Reset()
	l.state = Down
	l.minAngle = restAngle
	l.maxAngle = restAngle
	l.lastRepTime = time.Time{}
	l.hasReachedUp = false
	l.hasReachedDown = false
	l.velocity = 0
	l.lastAngle = restAngle
	l.activityScore = 0
}

// Observe advances the curl state machine with one frame of joints taken at
// now. Joints with non-finite values are treated as missing.
func (l *Limb) Observe(j Joints, now time.Time) Observation {
	if !j.Valid() {
		return Observation{}
	}

	angle := l.smoother.Add(j.ElbowAngle())
	if angle < l.minAngle {
		l.minAngle = angle
	}
	if angle > l.maxAngle {
		l.maxAngle = angle
	}

	obs := Observation{
		Observed:   true,
		Angle:      angle,
		Confidence: j.Confidence(),
	}

	switch l.state {
	case Down:
		if angle < l.cfg.MinCurlAngle &&
			(j.WristAboveShoulder() || angle < l.cfg.MinCurlAngle-l.cfg.UpFallbackOffset) {
			l.hasReachedUp = true
			l.state = Up
		}
	case Up:
		if angle > l.cfg.MaxExtendAngle {
			l.hasReachedDown = true
			if l.repValid(now) {
				obs.RepCompleted = true
				l.lastRepTime = now
				l.state = Down
				l.hasReachedUp = false
				l.hasReachedDown = false
				l.minAngle = restAngle
				l.maxAngle = restAngle
			} else if angle > l.cfg.MaxExtendAngle+l.cfg.AbandonOffset {
				l.state = Down
				l.hasReachedUp = false
				l.hasReachedDown = false
			}
		}
	}

	return obs
}

// repValid evaluates the rep-completion predicate at the moment of extension.
func (l *Limb) repValid(now time.Time) bool {
	return l.hasReachedUp &&
		l.hasReachedDown &&
		l.maxAngle-l.minAngle >= l.cfg.MinRangeOfMotion &&
		now.Sub(l.lastRepTime) >= l.cfg.RepCooldown
}

// Score folds the frame's observation into the activity score. Call it once
// per frame, including frames where the limb was not observed.
func (l *Limb) Score(obs Observation) {
	l.score(obs)
}

// State returns the current curl phase.
func (l *Limb) State() State {
	return l.state
}

// HasReachedUp reports whether the current cycle has curled past the threshold.
func (l *Limb) HasReachedUp() bool {
	return l.hasReachedUp
}

// ActivityScore returns the decayed activity score.
func (l *Limb) ActivityScore() float64 {
	return l.activityScore
}

// Snapshot returns a copy of the limb's tracking state.
func (l *Limb) Snapshot() LimbState {
	return LimbState{
		Side:           l.side,
		State:          l.state,
		AngleHistory:   l.smoother.History(),
		MinAngle:       l.minAngle,
		MaxAngle:       l.maxAngle,
		LastRepTime:    l.lastRepTime,
		HasReachedUp:   l.hasReachedUp,
		HasReachedDown: l.hasReachedDown,
		Velocity:       l.velocity,
		LastAngle:      l.lastAngle,
		ActivityScore:  l.activityScore,
		Active:         l.Active(),
	}
}
