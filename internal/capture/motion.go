package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame rates for the two pacing modes.
const (
	IdleFPS   = 5
	ActiveFPS = 15
)

// MotionConfig tunes frame differencing.
type MotionConfig struct {
	Threshold     float64       // percent of pixels that must change
	BlurSize      int           // Gaussian kernel size, odd
	DiffThreshold float32       // per-pixel intensity change that counts
	IdleAfter     time.Duration // quiet time before dropping to idle rate
}

// DefaultMotionConfig returns the settings used for a webcam at arm's length.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Threshold:     1.0,
		BlurSize:      21,
		DiffThreshold: 25,
		IdleAfter:     2 * time.Second,
	}
}

// MotionDetector compares each frame to the previous one after grayscale
// conversion and blurring, and reports the share of changed pixels.
type MotionDetector struct {
	cfg  MotionConfig
	prev gocv.Mat
	seen bool
	mu   sync.Mutex
}

// NewMotionDetector creates a detector. Close releases its native buffer.
func NewMotionDetector(cfg MotionConfig) *MotionDetector {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultMotionConfig().Threshold
	}
	if cfg.BlurSize <= 0 || cfg.BlurSize%2 == 0 {
		cfg.BlurSize = DefaultMotionConfig().BlurSize
	}
	if cfg.DiffThreshold <= 0 {
		cfg.DiffThreshold = DefaultMotionConfig().DiffThreshold
	}
	return &MotionDetector{cfg: cfg, prev: gocv.NewMat()}
}

// Detect reports whether frame differs enough from the previous frame, and
// the percentage of pixels that changed. The first frame only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := m.cfg.BlurSize
	gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	if !m.seen || blurred.Rows() != m.prev.Rows() || blurred.Cols() != m.prev.Cols() {
		blurred.CopyTo(&m.prev)
		m.seen = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prev, &diff)
	gocv.Threshold(diff, &diff, m.cfg.DiffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	blurred.CopyTo(&m.prev)

	return changed > m.cfg.Threshold, changed
}

// Reset forgets the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = false
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prev.Close()
	m.prev = gocv.NewMat()
	m.seen = false
}

// Pacer switches between the idle and active frame rates. Motion switches to
// active immediately; IdleAfter of stillness switches back.
type Pacer struct {
	idleAfter  time.Duration
	active     bool
	lastMotion time.Time
}

// NewPacer creates a pacer that starts idle.
func NewPacer(idleAfter time.Duration) *Pacer {
	return &Pacer{idleAfter: idleAfter}
}

// Observe records whether motion was seen at now and returns the frame rate to
// use next and whether it changed.
func (p *Pacer) Observe(moving bool, now time.Time) (fps int, changed bool) {
	was := p.active
	if moving {
		p.lastMotion = now
		p.active = true
	} else if p.active && now.Sub(p.lastMotion) > p.idleAfter {
		p.active = false
	}
	return p.FPS(), was != p.active
}

// Hold keeps the pacer active as if motion was seen at now. A tracked arm
// counts as motion even when the background is still.
func (p *Pacer) Hold(now time.Time) {
	p.lastMotion = now
	p.active = true
}

// Active reports whether the pacer is in active mode.
func (p *Pacer) Active() bool {
	return p.active
}

// FPS returns the frame rate for the current mode.
func (p *Pacer) FPS() int {
	if p.active {
		return ActiveFPS
	}
	return IdleFPS
}
