package rep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_FirstFrameComparesAgainstRest(t *testing.T) {
	l := newTestLimb(t, DefaultConfig())
	obs := l.Observe(armAt(90), time.Now())
	l.Score(obs)

	// velocity 90, range 90, confidence 1: (36 + 27 + 10) * 0.2
	s := l.Snapshot()
	assert.InDelta(t, 90, s.Velocity, 1e-6)
	assert.InDelta(t, 14.6, s.ActivityScore, 1e-6)
	assert.True(t, s.Active, "first frame registers as active against the resting angle")
}

func TestActivity_DecaysWhenMissing(t *testing.T) {
	l := newTestLimb(t, DefaultConfig())
	f := newFeeder(l, 33*time.Millisecond)
	f.feed(cycle()...)

	before := l.ActivityScore()
	require.Greater(t, before, 0.0)

	l.Score(Observation{})
	assert.InDelta(t, before*0.85, l.ActivityScore(), epsilon)
}

func TestActivity_ZeroVisibilityDecaysDespiteMotion(t *testing.T) {
	l := newTestLimb(t, DefaultConfig())
	f := newFeeder(l, 33*time.Millisecond)
	f.feed(cycle()...)
	f.feed(cycle()...)

	prev := l.ActivityScore()
	require.Greater(t, prev, 3.0)

	now := f.now
	for i := 0; i < 60; i++ {
		angle := 170.0
		if i%2 == 0 {
			angle = 40
		}
		j := armAt(angle)
		j.Wrist.Visibility = 0

		now = now.Add(33 * time.Millisecond)
		l.Score(l.Observe(j, now))

		got := l.ActivityScore()
		require.Less(t, got, prev, "score must keep decaying at frame %d", i)
		prev = got
	}
	assert.Less(t, prev, 0.05)
	assert.False(t, l.Active())
}

func TestActivity_RestingLimbIsNotActive(t *testing.T) {
	l := newTestLimb(t, DefaultConfig())
	f := newFeeder(l, 33*time.Millisecond)
	f.feed(repeat(170, 40)...)

	s := l.Snapshot()
	assert.Greater(t, s.ActivityScore, 3.0, "confidence alone keeps the score up")
	assert.Equal(t, Down, s.State)
	assert.False(t, s.Active, "a still, extended arm is not active")
}

func TestActivity_MidCycleIsActive(t *testing.T) {
	l := newTestLimb(t, DefaultConfig())
	f := newFeeder(l, 33*time.Millisecond)
	f.feed(repeat(170, 10)...)
	f.feed(repeat(40, 10)...)

	require.Equal(t, Up, l.State())
	assert.True(t, l.Active())
}

func TestArbitrate(t *testing.T) {
	active := func(score float64) LimbState { return LimbState{Active: true, ActivityScore: score} }
	idle := func(score float64) LimbState { return LimbState{Active: false, ActivityScore: score} }

	tests := []struct {
		name        string
		right, left LimbState
		want        ActiveLimb
	}{
		{"neither", idle(10), idle(10), ActiveNone},
		{"right only", active(5), idle(20), ActiveRight},
		{"left only", idle(20), active(5), ActiveLeft},
		{"both close", active(12), active(10.5), ActiveBoth},
		{"both equal", active(20), active(20), ActiveBoth},
		{"both at margin", active(12), active(10), ActiveBoth},
		{"right clearly ahead", active(15), active(10), ActiveRight},
		{"left clearly ahead", active(10), active(15), ActiveLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Arbitrate(tt.right, tt.left, 2))
		})
	}
}
