package gesture

import "time"

// Default trigger settings.
const (
	DefaultCooldown = 2 * time.Second
	DefaultConfirm  = 3
)

// Trigger turns a per-frame gesture stream into discrete commands. A gesture
// fires once per continuous hold, after Confirm consecutive frames, and not
// again within Cooldown of its last firing.
type Trigger struct {
	cooldown time.Duration
	confirm  int

	current  Gesture
	streak   int
	fired    bool
	lastFire map[Gesture]time.Time
}

// NewTrigger creates a trigger. Non-positive arguments take the defaults.
func NewTrigger(cooldown time.Duration, confirm int) *Trigger {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if confirm <= 0 {
		confirm = DefaultConfirm
	}
	return &Trigger{
		cooldown: cooldown,
		confirm:  confirm,
		current:  None,
		lastFire: make(map[Gesture]time.Time),
	}
}

// Observe feeds one frame's gesture seen at now. It returns the gesture and
// true when it should be acted on.
func (t *Trigger) Observe(g Gesture, now time.Time) (Gesture, bool) {
	if g != t.current {
		t.current = g
		t.streak = 0
		t.fired = false
	}
	t.streak++

	if !g.Actionable() || t.fired || t.streak < t.confirm {
		return None, false
	}
	if last, ok := t.lastFire[g]; ok && now.Sub(last) < t.cooldown {
		return None, false
	}

	t.fired = true
	t.lastFire[g] = now
	return g, true
}

// Reset forgets the current hold and all cooldowns.
func (t *Trigger) Reset() {
	t.current = None
	t.streak = 0
	t.fired = false
	clear(t.lastFire)
}
