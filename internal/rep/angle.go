// Package rep turns per-frame arm joint positions into smoothed elbow angles,
// validated curl repetitions and a decayed activity score per limb.
package rep

import "math"

// Point is a 2D landmark in normalized image coordinates (y grows downward)
// with the detector's visibility confidence.
type Point struct {
	X          float64
	Y          float64
	Visibility float64
}

func (p Point) finite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Visibility)
}

// Joints are the three landmarks of one arm.
type Joints struct {
	Shoulder Point
	Elbow    Point
	Wrist    Point
}

// Valid reports whether every coordinate and visibility is a finite number.
func (j Joints) Valid() bool {
	return j.Shoulder.finite() && j.Elbow.finite() && j.Wrist.finite()
}

// Confidence is the product of the three joint visibilities, so a single
// poorly detected joint suppresses the whole arm.
func (j Joints) Confidence() float64 {
	return j.Shoulder.Visibility * j.Elbow.Visibility * j.Wrist.Visibility
}

// ElbowAngle returns the interior angle at the elbow.
func (j Joints) ElbowAngle() float64 {
	return Angle(j.Shoulder, j.Elbow, j.Wrist)
}

// WristAboveShoulder reports whether the wrist is higher in the image than the shoulder.
func (j Joints) WristAboveShoulder() bool {
	return j.Wrist.Y < j.Shoulder.Y
}

// Angle returns the interior angle in degrees at vertex b formed by the rays
// b->a and b->c. The result is always within [0, 180]. Coincident points
// produce 0 for the degenerate ray since atan2(0, 0) is 0.
func Angle(a, b, c Point) float64 {
	radians := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(radians * 180.0 / math.Pi)
	if deg > 180.0 {
		deg = 360.0 - deg
	}
	return deg
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
