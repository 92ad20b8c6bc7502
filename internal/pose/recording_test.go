package pose

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/curlcount/internal/rep"
)

func TestRecordingReader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSample(&buf, ArmFrame(170, 90), 0); err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}
	buf.WriteString("\n") // blank lines are skipped
	if err := WriteSample(&buf, WithHands(ArmFrame(40, 175), ThumbsUpHand()), 66*time.Millisecond); err != nil {
		t.Fatalf("WriteSample() error = %v", err)
	}

	r := NewRecordingReader(&buf)

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Offset() != 0 || len(first.Pose) != NumLandmarks {
		t.Errorf("first sample = offset %v, %d landmarks", first.Offset(), len(first.Pose))
	}
	j, ok := first.Frame().Arm(rep.Right)
	if !ok {
		t.Fatal("right arm missing after round trip")
	}
	if got := j.ElbowAngle(); got < 169.9 || got > 170.1 {
		t.Errorf("right elbow angle = %v, want 170", got)
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if second.Offset() != 66*time.Millisecond {
		t.Errorf("second offset = %v, want 66ms", second.Offset())
	}
	if len(second.Hands) != 1 {
		t.Errorf("expected 1 hand, got %d", len(second.Hands))
	}
	if f := second.Frame(); f.Timestamp != 66 {
		t.Errorf("frame timestamp = %d, want 66", f.Timestamp)
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
}

func TestRecordingReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad json", `{"t_ms":0,"pose":[]}` + "\nnot json\n", "line 2"},
		{"time goes backwards", `{"t_ms":100,"pose":[]}` + "\n" + `{"t_ms":50,"pose":[]}` + "\n", "before previous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecordingReader(strings.NewReader(tt.input))
			if _, err := r.Next(); err != nil {
				t.Fatalf("first Next() error = %v", err)
			}
			_, err := r.Next()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Next() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
