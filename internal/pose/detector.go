package pose

import "gocv.io/x/gocv"

// Detector defines the interface for landmark detection backends.
type Detector interface {
	// Detect analyzes a video frame and returns its body and hand landmarks.
	// A frame without a person yields a Frame with an empty Pose.
	Detect(frame *gocv.Mat) (*Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinDetectionConf is the minimum detection confidence threshold (0.0-1.0).
	MinDetectionConf float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ModelComplexity selects the pose model (0, 1 or 2).
	ModelComplexity int
}

// DefaultConfig returns a Config with the values the counter was tuned with.
func DefaultConfig() Config {
	return Config{
		MaxHands:         2,
		MinDetectionConf: 0.6,
		MinTrackingConf:  0.6,
		ModelComplexity:  1,
	}
}
