package gesture

import (
	"testing"
	"time"
)

type triggerRun struct {
	trig  *Trigger
	now   time.Time
	fired []Gesture
}

func newRun(cooldown time.Duration, confirm int) *triggerRun {
	return &triggerRun{
		trig: NewTrigger(cooldown, confirm),
		now:  time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC),
	}
}

// hold shows g for n frames at 15 frames per second.
func (r *triggerRun) hold(g Gesture, n int) {
	for i := 0; i < n; i++ {
		r.now = r.now.Add(time.Second / 15)
		if out, ok := r.trig.Observe(g, r.now); ok {
			r.fired = append(r.fired, out)
		}
	}
}

func TestTrigger_OncePerHold(t *testing.T) {
	r := newRun(time.Second, 3)

	r.hold(ThumbsUp, 2)
	if len(r.fired) != 0 {
		t.Fatalf("fired before confirmation: %v", r.fired)
	}

	r.hold(ThumbsUp, 60)
	if len(r.fired) != 1 || r.fired[0] != ThumbsUp {
		t.Errorf("fired = %v, want exactly one thumbs_up", r.fired)
	}
}

func TestTrigger_IgnoresPassiveGestures(t *testing.T) {
	r := newRun(time.Second, 1)

	r.hold(Fist, 10)
	r.hold(Open, 10)
	r.hold(None, 10)

	if len(r.fired) != 0 {
		t.Errorf("fired = %v, want nothing", r.fired)
	}
}

func TestTrigger_Cooldown(t *testing.T) {
	r := newRun(2*time.Second, 1)

	r.hold(Peace, 3)
	r.hold(None, 3)
	r.hold(Peace, 3) // 6 frames after the first firing, well inside the cooldown
	if len(r.fired) != 1 {
		t.Fatalf("fired = %v, want one peace inside cooldown", r.fired)
	}

	r.hold(None, 30)
	r.hold(Peace, 1)
	if len(r.fired) != 2 {
		t.Errorf("fired = %v, want a second peace after cooldown", r.fired)
	}
}

func TestTrigger_IndependentCooldowns(t *testing.T) {
	r := newRun(2*time.Second, 1)

	r.hold(ThumbsUp, 1)
	r.hold(Peace, 1)

	want := []Gesture{ThumbsUp, Peace}
	if len(r.fired) != len(want) || r.fired[0] != want[0] || r.fired[1] != want[1] {
		t.Errorf("fired = %v, want %v", r.fired, want)
	}
}

func TestTrigger_Reset(t *testing.T) {
	r := newRun(time.Minute, 1)

	r.hold(Peace, 1)
	r.trig.Reset()
	r.hold(Peace, 1)

	if len(r.fired) != 2 {
		t.Errorf("fired = %v, want cooldown cleared by Reset", r.fired)
	}
}

func TestNewTrigger_Defaults(t *testing.T) {
	trig := NewTrigger(0, 0)
	if trig.cooldown != DefaultCooldown || trig.confirm != DefaultConfirm {
		t.Errorf("NewTrigger(0, 0) = (%v, %d), want (%v, %d)", trig.cooldown, trig.confirm, DefaultCooldown, DefaultConfirm)
	}
}
