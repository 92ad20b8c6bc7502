// Package tray provides a system tray menu for the curl counter.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/session"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onReset  func()
	onVoice  func(on bool)
	onOpen   func()
	onQuit   func()
	enabled  bool
	voice    bool
	reps     int
	active   rep.ActiveLimb
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuReps   *systray.MenuItem
	menuArm    *systray.MenuItem
	menuVoice  *systray.MenuItem
}

// New creates a new Tray reflecting the given counting and voice state.
func New(enabled, voice bool) *Tray {
	return &Tray{
		enabled: enabled,
		voice:   voice,
		active:  rep.ActiveNone,
	}
}

// OnToggle sets the callback run when counting is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback run when Reset is clicked.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnVoice sets the callback run when announcements are switched on or off.
func (t *Tray) OnVoice(fn func(on bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onVoice = fn
}

// OnOpen sets the callback run when the browser item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray from outside the menu.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("curlcount")
	systray.SetTooltip("Bicep curl counter")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Start or stop counting")
	systray.AddSeparator()

	t.menuReps = systray.AddMenuItem(repsTitle(t.reps), "Reps this session")
	t.menuReps.Disable()
	t.menuArm = systray.AddMenuItem(armTitle(t.active), "Arm currently moving")
	t.menuArm.Disable()
	menuReset := systray.AddMenuItem("Reset", "Save this workout and start over")
	systray.AddSeparator()

	t.menuVoice = systray.AddMenuItemCheckbox("Voice", "Speak each rep", t.voice)
	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the counter page")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit curlcount")
	t.mu.Unlock()

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-t.menuVoice.ClickedCh:
				t.handleVoice()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips counting and tells the application.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleVoice() {
	t.mu.Lock()
	t.voice = !t.voice
	on := t.voice
	if on {
		t.menuVoice.Check()
	} else {
		t.menuVoice.Uncheck()
	}
	callback := t.onVoice
	t.mu.Unlock()

	if callback != nil {
		callback(on)
	}
}

func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Update shows a frame result. Menu titles change only when their text does.
func (t *Tray) Update(res session.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if res.TotalReps != t.reps {
		t.reps = res.TotalReps
		if t.menuReps != nil {
			t.menuReps.SetTitle(repsTitle(t.reps))
		}
	}
	if res.Active != t.active {
		t.active = res.Active
		if t.menuArm != nil {
			t.menuArm.SetTitle(armTitle(t.active))
		}
	}
}

// SetEnabled reflects a counting change made elsewhere, such as a gesture.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Reps returns the rep count last shown.
func (t *Tray) Reps() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reps
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Counting"
	}
	return "○ Paused"
}

func repsTitle(n int) string {
	return fmt.Sprintf("Reps: %d", n)
}

func armTitle(active rep.ActiveLimb) string {
	switch active {
	case rep.ActiveRight:
		return "Arm: right"
	case rep.ActiveLeft:
		return "Arm: left"
	case rep.ActiveBoth:
		return "Arm: both"
	default:
		return "Arm: none"
	}
}
