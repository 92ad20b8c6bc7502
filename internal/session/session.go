// Package session runs the per-frame curl counting pipeline for both arms.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/curlcount/internal/pose"
	"github.com/ayusman/curlcount/internal/rep"
)

// Result is the outcome of processing one frame.
type Result struct {
	SessionID string         `json:"session_id"`
	Timestamp time.Time      `json:"timestamp"`
	Angle     *float64       `json:"display_angle"`
	Side      rep.Side       `json:"side,omitempty"` // arm the angle and status describe
	Status    Status         `json:"status"`
	Label     string         `json:"label"`
	Rep       bool           `json:"rep_completed"`
	RepSides  []rep.Side     `json:"rep_sides,omitempty"`
	Active    rep.ActiveLimb `json:"active_limb"`
	TotalReps int            `json:"total_reps"`
}

// Session owns the tracking state of both arms for one counting session.
// Process must not be called concurrently; callers serialize frames and Reset.
type Session struct {
	id        string
	cfg       rep.Config
	right     *rep.Limb
	left      *rep.Limb
	totalReps int
	reps      map[rep.Side]int
	started   time.Time
	active    rep.ActiveLimb
	last      *Result
}

// New creates a session with both arms in their initial state.
func New(cfg rep.Config) (*Session, error) {
	right, err := rep.NewLimb(rep.Right, cfg)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	left, err := rep.NewLimb(rep.Left, cfg)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s := &Session{cfg: cfg, right: right, left: left, reps: make(map[rep.Side]int, 2)}
	s.Reset()
	return s, nil
}

// Reset restores both arms to their initial state, zeroes the rep counter
// and starts a new session ID.
func (s *Session) Reset() {
	s.right.Reset()
	s.left.Reset()
	s.id = uuid.New().String()
	s.totalReps = 0
	clear(s.reps)
	s.started = time.Time{}
	s.active = rep.ActiveNone
	s.last = nil
}

// Process advances both arms with one frame taken at now.
// A nil frame or missing arm is not an error; that arm is skipped.
func (s *Session) Process(frame *pose.Frame, now time.Time) Result {
	if s.started.IsZero() {
		s.started = now
	}

	rightJoints, rightOK := frame.Arm(rep.Right)
	leftJoints, leftOK := frame.Arm(rep.Left)

	var rightObs, leftObs rep.Observation
	if rightOK {
		rightObs = s.right.Observe(rightJoints, now)
	}
	if leftOK {
		leftObs = s.left.Observe(leftJoints, now)
	}

	s.right.Score(rightObs)
	s.left.Score(leftObs)

	res := Result{
		SessionID: s.id,
		Timestamp: now,
	}

	if rightObs.RepCompleted {
		res.RepSides = append(res.RepSides, rep.Right)
	}
	if leftObs.RepCompleted {
		res.RepSides = append(res.RepSides, rep.Left)
	}
	for _, side := range res.RepSides {
		s.reps[side]++
	}
	res.Rep = len(res.RepSides) > 0
	s.totalReps += len(res.RepSides)

	var preferred *rep.Limb
	switch {
	case rightObs.Observed:
		preferred = s.right
		res.Angle = floatPtr(rightObs.Angle)
	case leftObs.Observed:
		preferred = s.left
		res.Angle = floatPtr(leftObs.Angle)
	}

	if preferred == nil {
		s.active = rep.ActiveNone
		res.Status = StatusNoDetection
	} else {
		s.active = rep.Arbitrate(s.right.Snapshot(), s.left.Snapshot(), s.cfg.Activity.BothMargin)
		res.Side = preferred.Side()
		res.Status = StatusOf(preferred.State(), preferred.HasReachedUp())
	}

	res.Active = s.active
	res.Label = Label(res.Status, res.Active)
	res.TotalReps = s.totalReps

	s.last = &res
	return res
}

// ID returns the current session identifier.
func (s *Session) ID() string {
	return s.id
}

// TotalReps returns the reps counted across both arms since the last reset.
func (s *Session) TotalReps() int {
	return s.totalReps
}

// Reps returns the reps counted for one arm since the last reset.
func (s *Session) Reps(side rep.Side) int {
	return s.reps[side]
}

// Started returns the time of the first frame since the last reset, or the
// zero time if no frame has been processed.
func (s *Session) Started() time.Time {
	return s.started
}

// Active returns the most recent arbitration result.
func (s *Session) Active() rep.ActiveLimb {
	return s.active
}

// Last returns the most recent result, or nil before the first frame.
func (s *Session) Last() *Result {
	return s.last
}

// Config returns the configuration the session was built with.
func (s *Session) Config() rep.Config {
	return s.cfg
}

// Limb returns a snapshot of one arm's tracking state.
func (s *Session) Limb(side rep.Side) rep.LimbState {
	if side == rep.Left {
		return s.left.Snapshot()
	}
	return s.right.Snapshot()
}

func floatPtr(v float64) *float64 {
	return &v
}
