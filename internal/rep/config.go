package rep

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid rep config")

// Config holds the tunables for a limb tracker. A Config is fixed for the
// lifetime of the limb it was passed to.
type Config struct {
	// SmoothingWindow is the number of raw angle samples kept for smoothing.
	SmoothingWindow int

	// MinCurlAngle is the elbow angle (degrees) below which the arm counts as curled.
	MinCurlAngle float64

	// MaxExtendAngle is the elbow angle (degrees) above which the arm counts as extended.
	MaxExtendAngle float64

	// RepCooldown is the minimum time between two counted reps on the same limb.
	RepCooldown time.Duration

	// MinRangeOfMotion is the minimum max-min angle spread (degrees) for a valid rep.
	MinRangeOfMotion float64

	// UpFallbackOffset lets a curl register without the wrist above the
	// shoulder once the angle is this far below MinCurlAngle.
	UpFallbackOffset float64

	// AbandonOffset is how far past MaxExtendAngle an unfinished cycle is dropped.
	AbandonOffset float64

	Activity ActivityConfig
}

// DefaultConfig returns the tuned defaults for bicep curls.
func DefaultConfig() Config {
	return Config{
		SmoothingWindow:  3,
		MinCurlAngle:     60,
		MaxExtendAngle:   150,
		RepCooldown:      400 * time.Millisecond,
		MinRangeOfMotion: 60,
		UpFallbackOffset: 10,
		AbandonOffset:    15,
		Activity:         DefaultActivityConfig(),
	}
}

// Validate reports whether the configuration can drive a limb tracker.
func (c Config) Validate() error {
	if c.SmoothingWindow < 1 {
		return fmt.Errorf("%w: smoothing window must be at least 1, got %d", ErrInvalidConfig, c.SmoothingWindow)
	}
	if !inDegrees(c.MinCurlAngle) {
		return fmt.Errorf("%w: min curl angle must be within [0,180], got %f", ErrInvalidConfig, c.MinCurlAngle)
	}
	if !inDegrees(c.MaxExtendAngle) {
		return fmt.Errorf("%w: max extend angle must be within [0,180], got %f", ErrInvalidConfig, c.MaxExtendAngle)
	}
	if c.MinCurlAngle >= c.MaxExtendAngle {
		return fmt.Errorf("%w: min curl angle %f must be below max extend angle %f", ErrInvalidConfig, c.MinCurlAngle, c.MaxExtendAngle)
	}
	if c.RepCooldown < 0 {
		return fmt.Errorf("%w: rep cooldown must be non-negative, got %s", ErrInvalidConfig, c.RepCooldown)
	}
	if !inDegrees(c.MinRangeOfMotion) {
		return fmt.Errorf("%w: min range of motion must be within [0,180], got %f", ErrInvalidConfig, c.MinRangeOfMotion)
	}
	if c.UpFallbackOffset < 0 || c.AbandonOffset < 0 {
		return fmt.Errorf("%w: threshold offsets must be non-negative", ErrInvalidConfig)
	}
	return c.Activity.Validate()
}

func inDegrees(v float64) bool {
	return v >= 0 && v <= 180
}
