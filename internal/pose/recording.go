package pose

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// maxRecordingLine bounds one JSONL line; a full frame is a few KiB.
const maxRecordingLine = 1 << 20

// Sample is one line of a landmark recording.
type Sample struct {
	OffsetMs int64      `json:"t_ms"` // milliseconds since the start of the recording
	Pose     []Landmark `json:"pose"`
	Hands    []Hand     `json:"hands,omitempty"`
}

// Frame returns the sample as a detector frame.
func (s Sample) Frame() *Frame {
	return &Frame{Pose: s.Pose, Hands: s.Hands, Timestamp: s.OffsetMs}
}

// Offset returns the sample time relative to the start of the recording.
func (s Sample) Offset() time.Duration {
	return time.Duration(s.OffsetMs) * time.Millisecond
}

// RecordingReader reads samples from a JSONL landmark recording.
type RecordingReader struct {
	scanner *bufio.Scanner
	line    int
	last    int64
}

// NewRecordingReader creates a reader over r.
func NewRecordingReader(r io.Reader) *RecordingReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxRecordingLine)
	return &RecordingReader{scanner: sc, last: -1}
}

// Next returns the next sample, or io.EOF at the end. Blank lines are
// skipped. Offsets must not go backwards.
func (r *RecordingReader) Next() (Sample, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var s Sample
		if err := json.Unmarshal(line, &s); err != nil {
			return Sample{}, fmt.Errorf("recording line %d: %w", r.line, err)
		}
		if s.OffsetMs < r.last {
			return Sample{}, fmt.Errorf("recording line %d: t_ms %d before previous %d", r.line, s.OffsetMs, r.last)
		}
		r.last = s.OffsetMs
		return s, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Sample{}, fmt.Errorf("recording line %d: %w", r.line+1, err)
	}
	return Sample{}, io.EOF
}

// WriteSample appends one sample line to w.
func WriteSample(w io.Writer, f *Frame, offset time.Duration) error {
	data, err := json.Marshal(Sample{OffsetMs: offset.Milliseconds(), Pose: f.Pose, Hands: f.Hands})
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
