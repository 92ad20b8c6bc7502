package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector_Defaults(t *testing.T) {
	tests := []struct {
		name string
		cfg  MotionConfig
		want MotionConfig
	}{
		{
			name: "defaults kept",
			cfg:  DefaultMotionConfig(),
			want: DefaultMotionConfig(),
		},
		{
			name: "zero values replaced",
			cfg:  MotionConfig{},
			want: MotionConfig{Threshold: 1.0, BlurSize: 21, DiffThreshold: 25},
		},
		{
			name: "even blur replaced",
			cfg:  MotionConfig{Threshold: 3, BlurSize: 8, DiffThreshold: 40},
			want: MotionConfig{Threshold: 3, BlurSize: 21, DiffThreshold: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.cfg)
			defer md.Close()

			if md.cfg != tt.want {
				t.Errorf("cfg = %+v, want %+v", md.cfg, tt.want)
			}
			if md.seen {
				t.Error("detector should have no baseline initially")
			}
		})
	}
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionConfig())
	defer md.Close()

	black := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	if moving, changed := md.Detect(&black); moving || changed != 0 {
		t.Errorf("first frame = (%v, %f), want (false, 0)", moving, changed)
	}
	if moving, changed := md.Detect(&black); moving {
		t.Errorf("identical frames reported motion, changed = %f", changed)
	}

	moving, changed := md.Detect(&white)
	if !moving {
		t.Errorf("black to white should be motion, changed = %f", changed)
	}
	if changed < 50 {
		t.Errorf("changed = %f, want > 50", changed)
	}

	md.Reset()
	if moving, _ := md.Detect(&black); moving {
		t.Error("first frame after Reset should only set the baseline")
	}
}

func TestMotionDetector_Nil(t *testing.T) {
	md := NewMotionDetector(DefaultMotionConfig())
	defer md.Close()

	if moving, changed := md.Detect(nil); moving || changed != 0 {
		t.Errorf("Detect(nil) = (%v, %f), want (false, 0)", moving, changed)
	}
}

func TestMotionDetector_CloseTwice(t *testing.T) {
	md := NewMotionDetector(DefaultMotionConfig())
	md.Close()
	md.Close()
}

func TestPacer(t *testing.T) {
	start := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)
	p := NewPacer(2 * time.Second)

	if p.Active() || p.FPS() != IdleFPS {
		t.Fatalf("new pacer: active=%v fps=%d, want idle", p.Active(), p.FPS())
	}

	steps := []struct {
		name        string
		moving      bool
		at          time.Duration
		wantFPS     int
		wantChanged bool
	}{
		{"still stays idle", false, 0, IdleFPS, false},
		{"motion wakes", true, 100 * time.Millisecond, ActiveFPS, true},
		{"motion keeps active", true, 200 * time.Millisecond, ActiveFPS, false},
		{"brief stillness stays active", false, 1500 * time.Millisecond, ActiveFPS, false},
		{"long stillness sleeps", false, 2300 * time.Millisecond, IdleFPS, true},
		{"still again no change", false, 2400 * time.Millisecond, IdleFPS, false},
	}

	for _, s := range steps {
		fps, changed := p.Observe(s.moving, start.Add(s.at))
		if fps != s.wantFPS || changed != s.wantChanged {
			t.Errorf("%s: Observe = (%d, %v), want (%d, %v)", s.name, fps, changed, s.wantFPS, s.wantChanged)
		}
	}
}

func TestPacer_Hold(t *testing.T) {
	now := time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)
	p := NewPacer(time.Second)

	p.Hold(now)
	if !p.Active() {
		t.Fatal("Hold should activate the pacer")
	}

	// Tracking an arm keeps the pacer awake past the idle timeout.
	p.Hold(now.Add(900 * time.Millisecond))
	if fps, _ := p.Observe(false, now.Add(1500*time.Millisecond)); fps != ActiveFPS {
		t.Errorf("fps = %d, want %d while held", fps, ActiveFPS)
	}
}
