// Package plugin discovers and runs external programs that react to workout
// events, such as speaking the rep count aloud.
package plugin

import (
	"encoding/json"
	"slices"
)

// Events sent to plugins.
const (
	EventRep   = "rep"
	EventStart = "start"
	EventStop  = "stop"
	EventReset = "reset"
)

// Manifest is the plugin.json file in a plugin directory.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
	Events      []string `json:"events"`
}

// Handles reports whether the plugin subscribes to event. A manifest without
// events subscribes to all of them.
func (m Manifest) Handles(event string) bool {
	return len(m.Events) == 0 || slices.Contains(m.Events, event)
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Action string          `json:"action"`
	Event  string          `json:"event"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
