// Package testdata embeds landmark recordings used by tests and the replay
// command.
package testdata

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
)

// Recording names.
const (
	SingleRepRight = "single_rep_right.jsonl" // one right-arm curl, left arm hanging
	BothArms       = "both_arms.jsonl"        // two curls with both arms in step
)

//go:embed recordings/*.jsonl
var recordingsFS embed.FS

// OpenRecording opens an embedded recording by name.
func OpenRecording(name string) (io.ReadCloser, error) {
	f, err := recordingsFS.Open("recordings/" + name)
	if err != nil {
		return nil, fmt.Errorf("open recording %s: %w", name, err)
	}
	return f, nil
}

// Recordings lists the embedded recording names.
func Recordings() []string {
	entries, err := fs.ReadDir(recordingsFS, "recordings")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}
