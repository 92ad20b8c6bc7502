package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/curlcount/internal/app"
)

// SessionController is the part of the application the session endpoints drive.
type SessionController interface {
	Snapshot() app.Snapshot
	SetEnabled(enabled bool)
	Reset() error
}

// SessionHandler handles /api/session and its start, stop and reset commands.
type SessionHandler struct {
	ctrl SessionController
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(ctrl SessionController) *SessionHandler {
	return &SessionHandler{ctrl: ctrl}
}

// ServeHTTP routes GET /api/session and POST /api/session/{start,stop,reset}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch path {
	case "start":
		h.ctrl.SetEnabled(true)
	case "stop":
		h.ctrl.SetEnabled(false)
	case "reset":
		if err := h.ctrl.Reset(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to reset session: "+err.Error())
			return
		}
	default:
		writeError(w, http.StatusNotFound, "Unknown session command")
		return
	}

	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}
