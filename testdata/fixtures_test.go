package testdata

import (
	"bufio"
	"slices"
	"testing"
)

func TestRecordings(t *testing.T) {
	names := Recordings()
	for _, want := range []string{SingleRepRight, BothArms} {
		if !slices.Contains(names, want) {
			t.Errorf("Recordings() = %v, missing %s", names, want)
		}
	}
}

func TestOpenRecording(t *testing.T) {
	f, err := OpenRecording(SingleRepRight)
	if err != nil {
		t.Fatalf("OpenRecording() error = %v", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(nil, 1<<20)
	lines := 0
	for sc.Scan() {
		lines++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if lines != 45 {
		t.Errorf("lines = %d, want 45", lines)
	}

	if _, err := OpenRecording("missing.jsonl"); err == nil {
		t.Error("expected error for a missing recording")
	}
}
