package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ayusman/curlcount/internal/config"
	"github.com/ayusman/curlcount/internal/rep"
)

const maxSettingsBody = 64 << 10

// SettingsController is the part of the application the settings endpoints drive.
type SettingsController interface {
	RepConfig() rep.Config
	Reconfigure(cfg rep.Config) error
	VoiceEnabled() bool
	SetVoice(on bool) error
	AnnouncerName() string
	SetAnnouncer(name string) error
}

// SettingsHandler handles GET and PUT /api/settings.
type SettingsHandler struct {
	ctrl SettingsController
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(ctrl SettingsController) *SettingsHandler {
	return &SettingsHandler{ctrl: ctrl}
}

type settingsResponse struct {
	Tuning    *config.Tuning `json:"tuning"`
	Voice     bool           `json:"voice_enabled"`
	Announcer string         `json:"announcer"`
}

// updateSettingsRequest carries the settings to change. Tuning may be
// partial; unset fields keep their current value.
type updateSettingsRequest struct {
	Tuning    json.RawMessage `json:"tuning"`
	Voice     *bool           `json:"voice_enabled"`
	Announcer *string         `json:"announcer"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.current())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) current() settingsResponse {
	return settingsResponse{
		Tuning:    config.FromConfig(h.ctrl.RepConfig()),
		Voice:     h.ctrl.VoiceEnabled(),
		Announcer: h.ctrl.AnnouncerName(),
	}
}

// update handles PUT /api/settings. A tuning change is applied to the next
// session, not the running one.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSettingsBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if len(body) > maxSettingsBody {
		writeError(w, http.StatusRequestEntityTooLarge, "Settings document too large")
		return
	}

	var req updateSettingsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Tuning) > 0 && string(req.Tuning) != "null" {
		update, err := config.ParseTuning(req.Tuning)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		merged := config.FromConfig(h.ctrl.RepConfig()).Merge(update)
		if err := h.ctrl.Reconfigure(merged.Apply(rep.DefaultConfig())); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if req.Voice != nil {
		if err := h.ctrl.SetVoice(*req.Voice); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save voice setting")
			return
		}
	}
	if req.Announcer != nil {
		if err := h.ctrl.SetAnnouncer(*req.Announcer); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save announcer")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.current())
}
