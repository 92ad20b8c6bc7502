package pose

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Queued frames are returned in order; once the queue is empty the last
// configured frame is repeated.
type MockDetector struct {
	mu     sync.Mutex
	queue  []*Frame
	frame  *Frame
	err    error
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets the frame returned once the queue is drained.
func (m *MockDetector) SetFrame(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = f
}

// Enqueue appends frames to be returned by successive Detect calls.
func (m *MockDetector) Enqueue(frames ...*Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued frame, the fixed frame, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		f := m.queue[0]
		m.queue = m.queue[1:]
		m.frame = f
		return f, nil
	}
	if m.frame == nil {
		return &Frame{}, nil
	}
	return m.frame, nil
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ArmFrame returns a frame in which both arms are bent to the given elbow
// angles (degrees). Upper arms hang straight down from the shoulders, so the
// forearm swings up in front of the body as the angle closes. Pass a negative
// angle to leave that arm out of the frame.
func ArmFrame(rightDeg, leftDeg float64) *Frame {
	f := &Frame{Pose: make([]Landmark, NumLandmarks)}
	for i := range f.Pose {
		f.Pose[i] = Landmark{X: 0.5, Y: 0.5, Visibility: 0.9}
	}
	f.Pose[Nose] = Landmark{X: 0.5, Y: 0.15, Visibility: 0.99}

	placeArm(f, RightShoulder, RightElbow, RightWrist, 0.4, rightDeg)
	placeArm(f, LeftShoulder, LeftElbow, LeftWrist, 0.6, leftDeg)
	return f
}

func placeArm(f *Frame, shoulder, elbow, wrist int, x, deg float64) {
	if deg < 0 {
		// Missing arm: the detector reports nothing usable for it.
		nan := Landmark{X: math.NaN(), Y: math.NaN(), Visibility: 0}
		f.Pose[shoulder], f.Pose[elbow], f.Pose[wrist] = nan, nan, nan
		return
	}

	rad := deg * math.Pi / 180
	f.Pose[shoulder] = Landmark{X: x, Y: 0.3, Visibility: 0.98}
	f.Pose[elbow] = Landmark{X: x, Y: 0.5, Visibility: 0.97}
	f.Pose[wrist] = Landmark{
		X:          x + 0.2*math.Sin(rad),
		Y:          0.5 - 0.2*math.Cos(rad),
		Visibility: 0.95,
	}
}

// CurledArmFrame returns both arms fully curled.
func CurledArmFrame() *Frame {
	return ArmFrame(35, 35)
}

// ExtendedArmFrame returns both arms hanging straight.
func ExtendedArmFrame() *Frame {
	return ArmFrame(175, 175)
}

// HandSign returns a right hand with the thumb and each finger either raised
// or folded. fingers lists index, middle, ring and pinky.
func HandSign(thumbUp bool, fingers [4]bool) Hand {
	points := make([]Landmark, NumHandPoints)
	for i := range points {
		points[i] = Landmark{X: 0.5, Y: 0.7, Visibility: 1}
	}
	points[HandWrist] = Landmark{X: 0.5, Y: 0.8, Visibility: 1}

	points[ThumbIP] = Landmark{X: 0.42, Y: 0.55, Visibility: 1}
	points[ThumbTip] = Landmark{X: 0.40, Y: 0.60, Visibility: 1}
	if thumbUp {
		points[ThumbTip].Y = 0.45
	}

	pips := [4]int{IndexPIP, MiddlePIP, RingPIP, PinkyPIP}
	tips := [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}
	for i, up := range fingers {
		x := 0.46 + 0.03*float64(i)
		points[pips[i]] = Landmark{X: x, Y: 0.5, Visibility: 1}
		points[tips[i]] = Landmark{X: x, Y: 0.6, Visibility: 1}
		if up {
			points[tips[i]].Y = 0.4
		}
	}

	return Hand{Points: points, Handedness: "Right", Score: 0.95}
}

// ThumbsUpHand, PeaceHand, FistHand and OpenHand are common hand signs.
func ThumbsUpHand() Hand { return HandSign(true, [4]bool{}) }
func PeaceHand() Hand    { return HandSign(false, [4]bool{true, true, false, false}) }
func FistHand() Hand     { return HandSign(false, [4]bool{}) }
func OpenHand() Hand     { return HandSign(true, [4]bool{true, true, true, true}) }

// WithHands returns f with hands attached. A nil f yields a frame holding
// only the hands.
func WithHands(f *Frame, hands ...Hand) *Frame {
	if f == nil {
		f = &Frame{}
	}
	f.Hands = append(f.Hands, hands...)
	return f
}
