package api

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/curlcount/internal/app"
	"github.com/ayusman/curlcount/internal/plugin"
	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// fakeController records the commands the handlers issue.
type fakeController struct {
	mu        sync.Mutex
	snap      app.Snapshot
	cfg       rep.Config
	voice     bool
	announcer string
	resets    int
	resetErr  error
	saveErr   error
}

func newFakeController() *fakeController {
	return &fakeController{
		snap:      app.Snapshot{SessionID: "session-1", TotalReps: 4, RightReps: 3, LeftReps: 1},
		cfg:       rep.DefaultConfig(),
		announcer: plugin.DefaultAnnouncer,
	}
}

func (f *fakeController) Snapshot() app.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap.Enabled = enabled
}

func (f *fakeController) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	f.snap.SessionID = "session-2"
	f.snap.TotalReps, f.snap.RightReps, f.snap.LeftReps = 0, 0, 0
	return nil
}

func (f *fakeController) RepConfig() rep.Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

func (f *fakeController) Reconfigure(cfg rep.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfg = cfg
	return nil
}

func (f *fakeController) VoiceEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voice
}

func (f *fakeController) SetVoice(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.voice = on
	return nil
}

func (f *fakeController) AnnouncerName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.announcer
}

func (f *fakeController) SetAnnouncer(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.announcer = name
	return nil
}

var errDisk = errors.New("disk full")
