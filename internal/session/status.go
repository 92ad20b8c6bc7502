package session

import "github.com/ayusman/curlcount/internal/rep"

// Status is the coaching cue derived from an arm's curl phase.
type Status string

const (
	StatusReady       Status = "Ready"
	StatusCurlUp      Status = "Curl Up"
	StatusExtend      Status = "Extend"
	StatusNoDetection Status = "No Detection"
)

// StatusOf maps a curl phase to its cue: curled arms are told they are up,
// arms that curled but have not finished the cycle are told to extend.
func StatusOf(state rep.State, hasReachedUp bool) Status {
	switch {
	case state == rep.Up:
		return StatusCurlUp
	case hasReachedUp:
		return StatusExtend
	default:
		return StatusReady
	}
}

// Label prefixes a status with the active arm(s) for display.
func Label(status Status, active rep.ActiveLimb) string {
	if status == StatusNoDetection {
		return string(status)
	}
	switch active {
	case rep.ActiveBoth:
		return "Both " + string(status)
	case rep.ActiveRight:
		return "Right " + string(status)
	case rep.ActiveLeft:
		return "Left " + string(status)
	default:
		return string(status)
	}
}
