package tray

import (
	"testing"

	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/session"
)

func TestTitles(t *testing.T) {
	if got := toggleTitle(true); got != "● Counting" {
		t.Errorf("toggleTitle(true) = %q", got)
	}
	if got := toggleTitle(false); got != "○ Paused" {
		t.Errorf("toggleTitle(false) = %q", got)
	}
	if got := repsTitle(12); got != "Reps: 12" {
		t.Errorf("repsTitle(12) = %q", got)
	}

	arms := map[rep.ActiveLimb]string{
		rep.ActiveNone:  "Arm: none",
		rep.ActiveRight: "Arm: right",
		rep.ActiveLeft:  "Arm: left",
		rep.ActiveBoth:  "Arm: both",
		"":              "Arm: none",
	}
	for active, want := range arms {
		if got := armTitle(active); got != want {
			t.Errorf("armTitle(%q) = %q, want %q", active, got, want)
		}
	}
}

// Update and SetEnabled work before the menu exists.
func TestTray_StateBeforeRun(t *testing.T) {
	tr := New(false, true)

	if tr.IsEnabled() {
		t.Error("expected tray to start paused")
	}

	tr.Update(session.Result{TotalReps: 3, Active: rep.ActiveLeft})
	if got := tr.Reps(); got != 3 {
		t.Errorf("Reps() = %d, want 3", got)
	}

	tr.SetEnabled(true)
	if !tr.IsEnabled() {
		t.Error("expected tray enabled")
	}
}

func TestTray_Callbacks(t *testing.T) {
	tr := New(false, false)

	var resets, opens int
	tr.OnReset(func() { resets++ })
	tr.OnOpen(func() { opens++ })

	tr.handleReset()
	tr.handleReset()
	tr.handleOpen()

	if resets != 2 || opens != 1 {
		t.Errorf("resets = %d, opens = %d; want 2 and 1", resets, opens)
	}
}
