// Package pose provides body and hand landmark types and the detectors that
// produce them from camera frames.
package pose

import (
	"math"

	"github.com/ayusman/curlcount/internal/rep"
)

// Body landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	NumLandmarks  = 33
)

// Hand landmark indices following the MediaPipe Hands convention.
const (
	HandWrist     = 0
	ThumbIP       = 3
	ThumbTip      = 4
	IndexPIP      = 6
	IndexTip      = 8
	MiddlePIP     = 10
	MiddleTip     = 12
	RingPIP       = 14
	RingTip       = 16
	PinkyPIP      = 18
	PinkyTip      = 20
	NumHandPoints = 21
)

// Landmark is a detected keypoint in normalized image coordinates.
// Y increases downward.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Hand is one detected hand with its 21 landmarks.
type Hand struct {
	Points     []Landmark `json:"points"`
	Handedness string     `json:"handedness"` // "Left" or "Right"
	Score      float64    `json:"score"`
}

// Frame is the detector output for one camera frame. Pose is empty when no
// body was found.
type Frame struct {
	Pose      []Landmark `json:"pose"`
	Hands     []Hand     `json:"hands,omitempty"`
	Timestamp int64      `json:"timestamp"` // milliseconds
}

// armIndices maps a side to its shoulder, elbow and wrist landmarks.
var armIndices = map[rep.Side][3]int{
	rep.Right: {RightShoulder, RightElbow, RightWrist},
	rep.Left:  {LeftShoulder, LeftElbow, LeftWrist},
}

// Arm returns the joints of one arm. It reports false when the frame has no
// pose, the landmarks are missing, or any value is not a finite number.
func (f *Frame) Arm(side rep.Side) (rep.Joints, bool) {
	if f == nil {
		return rep.Joints{}, false
	}
	idx, ok := armIndices[side]
	if !ok {
		return rep.Joints{}, false
	}
	for _, i := range idx {
		if i >= len(f.Pose) {
			return rep.Joints{}, false
		}
	}

	j := rep.Joints{
		Shoulder: f.Pose[idx[0]].point(),
		Elbow:    f.Pose[idx[1]].point(),
		Wrist:    f.Pose[idx[2]].point(),
	}
	if !j.Valid() {
		return rep.Joints{}, false
	}
	return j, true
}

func (l Landmark) point() rep.Point {
	return rep.Point{X: l.X, Y: l.Y, Visibility: l.Visibility}
}

// Finite reports whether all coordinates and the visibility are finite.
func (l Landmark) Finite() bool {
	for _, v := range []float64{l.X, l.Y, l.Z, l.Visibility} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
