// Package replay feeds recorded landmarks through a counting session, using
// the recording's own timestamps instead of the wall clock.
package replay

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ayusman/curlcount/internal/pose"
	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/session"
)

// Summary is the outcome of a replay.
type Summary struct {
	SessionID string        `json:"session_id"`
	Frames    int           `json:"frames"`
	Duration  time.Duration `json:"duration"`
	TotalReps int           `json:"total_reps"`
	RightReps int           `json:"right_reps"`
	LeftReps  int           `json:"left_reps"`
}

// Epoch is the wall time a recording's offset zero maps to.
var Epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Run replays the recording in r with cfg. fn, if not nil, receives every
// frame result.
func Run(r io.Reader, cfg rep.Config, fn func(session.Result)) (Summary, error) {
	sess, err := session.New(cfg)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	rec := pose.NewRecordingReader(r)
	for {
		sample, err := rec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("replay: %w", err)
		}

		res := sess.Process(sample.Frame(), Epoch.Add(sample.Offset()))
		sum.Frames++
		sum.Duration = sample.Offset()
		if fn != nil {
			fn(res)
		}
	}

	sum.SessionID = sess.ID()
	sum.TotalReps = sess.TotalReps()
	sum.RightReps = sess.Reps(rep.Right)
	sum.LeftReps = sess.Reps(rep.Left)
	return sum, nil
}
