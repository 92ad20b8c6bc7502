package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultAnnouncer is the plugin used to speak events when none is configured.
const DefaultAnnouncer = "announce"

// ErrEventNotHandled is returned when the announcer plugin does not subscribe
// to an event.
var ErrEventNotHandled = errors.New("event not handled by plugin")

// Announcer sends workout events to a single named plugin.
type Announcer struct {
	mgr  *Manager
	exec *Executor

	mu   sync.RWMutex
	name string
}

// NewAnnouncer creates an Announcer that looks name up in mgr on every call,
// so rediscovery and renames take effect immediately.
func NewAnnouncer(mgr *Manager, exec *Executor, name string) *Announcer {
	if name == "" {
		name = DefaultAnnouncer
	}
	return &Announcer{mgr: mgr, exec: exec, name: name}
}

// Name returns the plugin the announcer uses.
func (a *Announcer) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

// SetName switches to another plugin. An empty name restores the default.
func (a *Announcer) SetName(name string) {
	if name == "" {
		name = DefaultAnnouncer
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
}

// Announce runs the plugin for event with params encoded as JSON.
func (a *Announcer) Announce(ctx context.Context, event string, params any) error {
	p, err := a.mgr.Get(a.Name())
	if err != nil {
		return fmt.Errorf("announce %s: %w", event, err)
	}
	if !p.Manifest.Handles(event) {
		return fmt.Errorf("announce %s via %s: %w", event, p.Manifest.Name, ErrEventNotHandled)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("announce %s: %w", event, err)
	}

	resp, err := a.exec.Execute(ctx, p, &Request{Action: "announce", Event: event, Params: raw})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", p.Manifest.Name, resp.Error)
	}
	return nil
}

// RepParams are the params of an EventRep announcement.
type RepParams struct {
	Count int    `json:"count"`
	Side  string `json:"side,omitempty"`
}
