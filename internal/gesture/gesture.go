// Package gesture recognizes the hand signs that control a counting session.
package gesture

import (
	"github.com/ayusman/curlcount/internal/pose"
)

// Gesture is a recognized static hand sign.
type Gesture string

const (
	None     Gesture = "none"
	ThumbsUp Gesture = "thumbs_up"
	Peace    Gesture = "peace"
	Fist     Gesture = "fist"
	Open     Gesture = "open"
)

// Actionable reports whether the gesture controls the session.
// Thumbs-up starts counting and peace resets it.
func (g Gesture) Actionable() bool {
	return g == ThumbsUp || g == Peace
}

// Classify names the sign made by hand. A finger counts as extended when its
// tip is above its PIP joint; the thumb compares its tip with its IP joint.
func Classify(hand pose.Hand) Gesture {
	p := hand.Points
	if len(p) < pose.NumHandPoints {
		return None
	}
	for _, lm := range p {
		if !lm.Finite() {
			return None
		}
	}

	above := func(tip, joint int) bool { return p[tip].Y < p[joint].Y }

	thumb := above(pose.ThumbTip, pose.ThumbIP)
	index := above(pose.IndexTip, pose.IndexPIP)
	middle := above(pose.MiddleTip, pose.MiddlePIP)
	ring := above(pose.RingTip, pose.RingPIP)
	pinky := above(pose.PinkyTip, pose.PinkyPIP)

	switch {
	case thumb && !index && !middle && !ring && !pinky:
		return ThumbsUp
	case index && middle && !ring && !pinky:
		return Peace
	case !index && !middle && !ring && !pinky:
		return Fist
	default:
		return Open
	}
}

// FromFrame classifies the first hand in the frame, or returns None.
func FromFrame(f *pose.Frame) Gesture {
	if f == nil || len(f.Hands) == 0 {
		return None
	}
	return Classify(f.Hands[0])
}
