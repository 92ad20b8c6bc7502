package rep

import "gonum.org/v1/gonum/stat"

// ring is a fixed-capacity buffer of float64 samples that drops the oldest
// sample on overflow.
type ring struct {
	data []float64
	pos  int
	full bool
}

func newRing(capacity int) *ring {
	return &ring{data: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	r.data[r.pos] = v
	r.pos++
	if r.pos >= len(r.data) {
		r.pos = 0
		r.full = true
	}
}

func (r *ring) len() int {
	if r.full {
		return len(r.data)
	}
	return r.pos
}

// slice returns the samples oldest first.
func (r *ring) slice() []float64 {
	n := r.len()
	out := make([]float64, n)
	if r.full {
		copy(out, r.data[r.pos:])
		copy(out[len(r.data)-r.pos:], r.data[:r.pos])
	} else {
		copy(out, r.data[:r.pos])
	}
	return out
}

func (r *ring) reset() {
	r.pos = 0
	r.full = false
}

// Smoother keeps a bounded history of raw angles and returns a linearly
// recency-weighted mean: the i-th oldest sample has weight i+1.
type Smoother struct {
	history *ring
	weights []float64
}

// NewSmoother creates a Smoother over the last window samples.
// A window below 1 is treated as 1.
func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = 1
	}
	weights := make([]float64, window)
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	return &Smoother{
		history: newRing(window),
		weights: weights,
	}
}

// Add records a raw sample and returns the smoothed value.
func (s *Smoother) Add(raw float64) float64 {
	s.history.push(raw)
	samples := s.history.slice()
	if len(samples) == 1 {
		return raw
	}
	return stat.Mean(samples, s.weights[:len(samples)])
}

// History returns the retained raw samples, oldest first.
func (s *Smoother) History() []float64 {
	return s.history.slice()
}

// Len returns the number of retained samples.
func (s *Smoother) Len() int {
	return s.history.len()
}

// Reset drops all retained samples.
func (s *Smoother) Reset() {
	s.history.reset()
}
