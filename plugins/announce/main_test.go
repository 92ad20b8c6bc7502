package main

import "testing"

func TestPhrase(t *testing.T) {
	tests := []struct {
		event string
		p     params
		want  string
	}{
		{"rep", params{Count: 12}, "12"},
		{"start", params{}, "Let's go"},
		{"stop", params{Count: 1}, "Done. 1 rep"},
		{"stop", params{Count: 20}, "Done. 20 reps"},
		{"reset", params{}, "Counter reset"},
	}

	for _, tt := range tests {
		got, err := phrase(tt.event, tt.p)
		if err != nil {
			t.Errorf("phrase(%q) error = %v", tt.event, err)
			continue
		}
		if got != tt.want {
			t.Errorf("phrase(%q, %+v) = %q, want %q", tt.event, tt.p, got, tt.want)
		}
	}

	if _, err := phrase("jump", params{}); err == nil {
		t.Error("phrase() should reject unknown events")
	}
}
