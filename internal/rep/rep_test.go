package rep

import (
	"math"
	"time"
)

const epsilon = 1e-9

// armAt builds arm joints whose elbow angle is deg. The upper arm points
// straight up from the elbow and the forearm swings from it, so curls tighter
// than ~66 degrees put the wrist above the shoulder.
func armAt(deg float64) Joints {
	rad := deg * math.Pi / 180
	elbow := Point{X: 0.5, Y: 0.5, Visibility: 1}
	return Joints{
		Shoulder: Point{X: 0.5, Y: 0.4, Visibility: 1},
		Elbow:    elbow,
		Wrist: Point{
			X:          elbow.X + 0.25*math.Sin(rad),
			Y:          elbow.Y - 0.25*math.Cos(rad),
			Visibility: 1,
		},
	}
}

// feeder drives a limb with a fixed frame interval.
type feeder struct {
	limb *Limb
	now  time.Time
	step time.Duration
	reps int
}

func newFeeder(l *Limb, step time.Duration) *feeder {
	return &feeder{
		limb: l,
		now:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (f *feeder) feed(angles ...float64) Observation {
	var obs Observation
	for _, a := range angles {
		f.now = f.now.Add(f.step)
		obs = f.limb.Observe(armAt(a), f.now)
		f.limb.Score(obs)
		if obs.RepCompleted {
			f.reps++
		}
	}
	return obs
}

func (f *feeder) wait(d time.Duration) {
	f.now = f.now.Add(d)
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func cycle() []float64 {
	angles := repeat(170, 3)
	angles = append(angles, repeat(55, 3)...)
	return append(angles, repeat(170, 3)...)
}
