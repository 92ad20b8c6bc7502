// Package app wires the camera, pose detector, counting session and plugins
// into the running curl counter.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/curlcount/internal/capture"
	"github.com/ayusman/curlcount/internal/config"
	"github.com/ayusman/curlcount/internal/gesture"
	"github.com/ayusman/curlcount/internal/log"
	"github.com/ayusman/curlcount/internal/plugin"
	"github.com/ayusman/curlcount/internal/pose"
	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/session"
	"github.com/ayusman/curlcount/internal/store"
)

// JPEGQuality is the quality of frames published to the preview stream.
const JPEGQuality = 70

// Config holds configuration options for the application.
type Config struct {
	Store     *store.Store // optional; settings and workouts are not persisted without it
	PluginDir string
	Camera    capture.Options
	Motion    capture.MotionConfig
	Tuning    *config.Tuning // applied over the stored tuning
}

// Snapshot describes the application state for the API and the tray.
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Enabled   bool            `json:"enabled"`
	Running   bool            `json:"running"`
	Voice     bool            `json:"voice_enabled"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
	TotalReps int             `json:"total_reps"`
	RightReps int             `json:"right_reps"`
	LeftReps  int             `json:"left_reps"`
	Last      *session.Result `json:"last,omitempty"`
}

// App is the main application that turns camera frames into counted reps.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	pacer      *capture.Pacer
	frames     *capture.FrameBuffer
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	announcer  *plugin.Announcer

	mu       sync.RWMutex
	detector pose.Detector
	enabled  bool
	voice    bool
	stopCh   chan struct{}
	done     chan struct{}

	// sessMu serializes frame processing, reset and reconfiguration.
	sessMu  sync.Mutex
	session *session.Session
	pending *rep.Config
	trigger *gesture.Trigger

	subMu   sync.RWMutex
	subs    map[int]func(session.Result)
	nextSub int

	announcing sync.WaitGroup
}

// New creates an App. The rep config is the default, overlaid with the tuning
// saved in the store and then with cfg.Tuning.
func New(cfg Config) (*App, error) {
	if cfg.Camera == (capture.Options{}) {
		cfg.Camera = capture.DefaultOptions()
	}
	if cfg.Motion == (capture.MotionConfig{}) {
		cfg.Motion = capture.DefaultMotionConfig()
	}

	repCfg := rep.DefaultConfig()
	voice := false
	announcerName := plugin.DefaultAnnouncer

	if cfg.Store != nil {
		settings := cfg.Store.Settings()

		var saved config.Tuning
		switch err := settings.GetJSON(store.KeyTuning, &saved); {
		case err == nil:
			if verr := saved.Validate(); verr != nil {
				log.Warn("ignoring stored tuning", "error", verr)
			} else {
				repCfg = saved.Apply(repCfg)
			}
		case !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("load tuning: %w", err)
		}

		v, err := settings.GetBool(store.KeyVoiceEnabled, false)
		if err != nil {
			return nil, fmt.Errorf("load voice setting: %w", err)
		}
		voice = v

		if name, err := settings.Get(store.KeyAnnouncer); err == nil {
			announcerName = name
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("load announcer setting: %w", err)
		}
	}
	repCfg = cfg.Tuning.Apply(repCfg)

	sess, err := session.New(repCfg)
	if err != nil {
		return nil, err
	}

	mgr := plugin.NewManager(cfg.PluginDir)
	exec := plugin.NewExecutor(plugin.DefaultTimeout)

	a := &App{
		config:     cfg,
		camera:     capture.NewCamera(cfg.Camera),
		motion:     capture.NewMotionDetector(cfg.Motion),
		pacer:      capture.NewPacer(cfg.Motion.IdleAfter),
		frames:     capture.NewFrameBuffer(),
		pluginMgr:  mgr,
		pluginExec: exec,
		announcer:  plugin.NewAnnouncer(mgr, exec, announcerName),
		voice:      voice,
		session:    sess,
		trigger:    gesture.NewTrigger(gesture.DefaultCooldown, gesture.DefaultConfirm),
		subs:       make(map[int]func(session.Result)),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := pose.NewMediaPipeDetector(pose.DefaultConfig()); err == nil {
		a.detector = mp
		log.Info("using MediaPipe pose detection")
	} else {
		log.Warn("MediaPipe not available, using mock detector", "error", err)
		a.detector = pose.NewMockDetector()
	}

	return a, nil
}

// SetEnabled turns rep counting on or off. Frames are still read while
// disabled so a thumbs-up can start counting.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	a.mu.Unlock()

	if !changed {
		return
	}
	if enabled {
		log.Info("counting started")
		a.announce(plugin.EventStart, nil)
		return
	}
	log.Info("counting stopped")
	a.announce(plugin.EventStop, plugin.RepParams{Count: a.TotalReps()})
}

// IsEnabled returns whether rep counting is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetVoice turns spoken announcements on or off and persists the choice.
func (a *App) SetVoice(on bool) error {
	a.mu.Lock()
	a.voice = on
	a.mu.Unlock()

	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().SetBool(store.KeyVoiceEnabled, on); err != nil {
		return fmt.Errorf("save voice setting: %w", err)
	}
	return nil
}

// VoiceEnabled reports whether announcements are spoken.
func (a *App) VoiceEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.voice
}

// SetAnnouncer selects the plugin used for announcements and persists it.
func (a *App) SetAnnouncer(name string) error {
	a.announcer.SetName(name)
	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().Set(store.KeyAnnouncer, a.announcer.Name()); err != nil {
		return fmt.Errorf("save announcer setting: %w", err)
	}
	return nil
}

// AnnouncerName returns the plugin used for announcements.
func (a *App) AnnouncerName() string {
	return a.announcer.Name()
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d pose.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera and begins the capture pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}
	a.camera.SetFPS(a.pacer.FPS())

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.camera, a.stopCh, a.done)

	log.Info("capture pipeline started", "fps", a.pacer.FPS())
	return nil
}

// Running reports whether the capture pipeline is running.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Stop halts the pipeline, saves the current workout and releases resources.
// It waits for announcements in flight.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
	}

	a.sessMu.Lock()
	if err := a.saveWorkout(time.Now()); err != nil {
		log.Error("failed to save workout", "error", err)
	}
	a.sessMu.Unlock()

	if err := a.Camera().Close(); err != nil {
		log.Warn("error closing camera", "error", err)
	}
	a.motion.Close()

	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Warn("error closing detector", "error", err)
		}
	}

	a.announcing.Wait()
	log.Info("capture pipeline stopped")
}

// ProcessFrame runs one frame of landmarks through gesture control and, when
// counting is enabled, the counting session. It reports false when the
// session did not see the frame.
func (a *App) ProcessFrame(frame *pose.Frame, now time.Time) (session.Result, bool) {
	a.sessMu.Lock()
	g, fire := a.trigger.Observe(gesture.FromFrame(frame), now)
	a.sessMu.Unlock()
	if fire {
		a.handleGesture(g)
	}

	if !a.IsEnabled() {
		return session.Result{}, false
	}

	a.sessMu.Lock()
	res := a.session.Process(frame, now)
	a.sessMu.Unlock()

	if res.Rep {
		log.Info("rep completed", "total", res.TotalReps, "sides", res.RepSides)
		side := ""
		if len(res.RepSides) == 1 {
			side = string(res.RepSides[0])
		}
		a.announce(plugin.EventRep, plugin.RepParams{Count: res.TotalReps, Side: side})
	}

	a.publish(res)
	return res, true
}

func (a *App) handleGesture(g gesture.Gesture) {
	log.Info("control gesture", "gesture", g)
	switch g {
	case gesture.ThumbsUp:
		a.SetEnabled(true)
	case gesture.Peace:
		if err := a.Reset(); err != nil {
			log.Error("reset failed", "error", err)
		}
	}
}

// Reset saves the current workout and starts a new session. A config passed
// to Reconfigure takes effect here.
func (a *App) Reset() error {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()

	saveErr := a.saveWorkout(time.Now())

	if a.pending != nil {
		sess, err := session.New(*a.pending)
		if err != nil {
			return err
		}
		a.session = sess
		a.pending = nil
		log.Info("session config applied", "session", sess.ID())
	} else {
		a.session.Reset()
	}

	a.announce(plugin.EventReset, nil)
	if saveErr != nil {
		return fmt.Errorf("save workout: %w", saveErr)
	}
	return nil
}

// saveWorkout records the current session if it counted anything. The caller
// holds sessMu.
func (a *App) saveWorkout(now time.Time) error {
	if a.config.Store == nil || a.session.TotalReps() == 0 {
		return nil
	}

	started := a.session.Started()
	if started.IsZero() {
		started = now
	}
	w := &store.Workout{
		ID:        a.session.ID(),
		StartedAt: started,
		EndedAt:   now,
		RightReps: a.session.Reps(rep.Right),
		LeftReps:  a.session.Reps(rep.Left),
	}
	if err := a.config.Store.Workouts().Create(w); err != nil {
		return err
	}
	log.Info("workout saved", "id", w.ID, "right", w.RightReps, "left", w.LeftReps)
	return nil
}

// Reconfigure validates cfg, persists it and applies it at the next Reset.
func (a *App) Reconfigure(cfg rep.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.sessMu.Lock()
	a.pending = &cfg
	a.sessMu.Unlock()

	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().SetJSON(store.KeyTuning, config.FromConfig(cfg)); err != nil {
		return fmt.Errorf("save tuning: %w", err)
	}
	return nil
}

// RepConfig returns the config the next session will use.
func (a *App) RepConfig() rep.Config {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	if a.pending != nil {
		return *a.pending
	}
	return a.session.Config()
}

// TotalReps returns the rep count of the current session.
func (a *App) TotalReps() int {
	a.sessMu.Lock()
	defer a.sessMu.Unlock()
	return a.session.TotalReps()
}

// Snapshot returns the current application state.
func (a *App) Snapshot() Snapshot {
	a.sessMu.Lock()
	snap := Snapshot{
		SessionID: a.session.ID(),
		TotalReps: a.session.TotalReps(),
		RightReps: a.session.Reps(rep.Right),
		LeftReps:  a.session.Reps(rep.Left),
		Last:      a.session.Last(),
	}
	if started := a.session.Started(); !started.IsZero() {
		snap.StartedAt = &started
	}
	a.sessMu.Unlock()

	snap.Enabled = a.IsEnabled()
	snap.Running = a.Running()
	snap.Voice = a.VoiceEnabled()
	return snap
}

// Workouts returns up to limit saved workouts, newest first.
func (a *App) Workouts(limit int) ([]*store.Workout, error) {
	if a.config.Store == nil {
		return nil, nil
	}
	return a.config.Store.Workouts().List(limit)
}

// Subscribe registers fn to receive every frame result. The returned function
// removes it.
func (a *App) Subscribe(fn func(session.Result)) (unsubscribe func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn

	return func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		delete(a.subs, id)
	}
}

func (a *App) publish(res session.Result) {
	a.subMu.RLock()
	fns := make([]func(session.Result), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.subMu.RUnlock()

	for _, fn := range fns {
		fn(res)
	}
}

// announce runs the announcer plugin in the background when voice is on.
func (a *App) announce(event string, params any) {
	if !a.VoiceEnabled() {
		return
	}

	a.announcing.Add(1)
	go func() {
		defer a.announcing.Done()
		if err := a.announcer.Announce(context.Background(), event, params); err != nil {
			if errors.Is(err, plugin.ErrEventNotHandled) {
				log.Debug("announcement skipped", "event", event, "error", err)
				return
			}
			log.Warn("announcement failed", "event", event, "error", err)
		}
	}()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Frames returns the buffer holding the latest preview JPEG.
func (a *App) Frames() *capture.FrameBuffer {
	return a.frames
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Announcer returns the plugin announcer.
func (a *App) Announcer() *plugin.Announcer {
	return a.announcer
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
