package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writePlugin creates dir/name with a plugin.json and an executable shell
// script, and returns the plugin directory.
func writePlugin(t *testing.T, dir, name, script string, events ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script plugins need a POSIX shell")
	}

	pluginDir := filepath.Join(dir, name)
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: "run.sh",
		Actions:    []string{"announce"},
		Events:     events,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, manifestFile), data, 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "run.sh"), []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return pluginDir
}

func mustPlugin(t *testing.T, dir string) *Plugin {
	t.Helper()
	p, err := load(dir)
	if err != nil {
		t.Fatalf("load(%s) error = %v", dir, err)
	}
	return p
}

func TestManifest_Handles(t *testing.T) {
	all := Manifest{}
	reps := Manifest{Events: []string{EventRep}}

	for _, ev := range []string{EventRep, EventStart, EventStop, EventReset} {
		if !all.Handles(ev) {
			t.Errorf("manifest without events should handle %q", ev)
		}
	}
	if !reps.Handles(EventRep) {
		t.Error("manifest should handle its listed event")
	}
	if reps.Handles(EventReset) {
		t.Error("manifest should not handle unlisted event")
	}
}
