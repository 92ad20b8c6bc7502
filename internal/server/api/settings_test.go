package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/curlcount/internal/rep"
)

func putSettings(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSettingsHandler_Get(t *testing.T) {
	handler := NewSettingsHandler(newFakeController())

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Tuning == nil || response.Tuning.SmoothingWindow == nil {
		t.Fatal("expected a fully populated tuning document")
	}
	if *response.Tuning.SmoothingWindow != 3 {
		t.Errorf("expected smoothing_window 3, got %d", *response.Tuning.SmoothingWindow)
	}
	if *response.Tuning.RepCooldown != "400ms" {
		t.Errorf("expected rep_cooldown 400ms, got %s", *response.Tuning.RepCooldown)
	}
	if response.Voice {
		t.Error("expected voice disabled")
	}
	if response.Announcer != "announce" {
		t.Errorf("expected announcer 'announce', got %q", response.Announcer)
	}
}

func TestSettingsHandler_Update(t *testing.T) {
	ctrl := newFakeController()
	handler := NewSettingsHandler(ctrl)

	rec := putSettings(handler, `{
		"tuning": {"min_curl_angle": 55, "rep_cooldown": "600ms"},
		"voice_enabled": true,
		"announcer": "chime"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	cfg := ctrl.RepConfig()
	if cfg.MinCurlAngle != 55 {
		t.Errorf("MinCurlAngle = %v, want 55", cfg.MinCurlAngle)
	}
	if cfg.RepCooldown != 600*time.Millisecond {
		t.Errorf("RepCooldown = %v, want 600ms", cfg.RepCooldown)
	}
	if cfg.SmoothingWindow != rep.DefaultConfig().SmoothingWindow {
		t.Errorf("SmoothingWindow = %d, want unchanged", cfg.SmoothingWindow)
	}
	if !ctrl.VoiceEnabled() {
		t.Error("expected voice enabled")
	}
	if ctrl.AnnouncerName() != "chime" {
		t.Errorf("announcer = %q, want chime", ctrl.AnnouncerName())
	}

	var response settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if *response.Tuning.MinCurlAngle != 55 {
		t.Errorf("response min_curl_angle = %v, want 55", *response.Tuning.MinCurlAngle)
	}
}

func TestSettingsHandler_UpdateKeepsPreviousTuning(t *testing.T) {
	ctrl := newFakeController()
	handler := NewSettingsHandler(ctrl)

	if rec := putSettings(handler, `{"tuning": {"smoothing_window": 5}}`); rec.Code != http.StatusOK {
		t.Fatalf("first update: status %d", rec.Code)
	}
	if rec := putSettings(handler, `{"tuning": {"both_margin": 3.5}}`); rec.Code != http.StatusOK {
		t.Fatalf("second update: status %d", rec.Code)
	}

	cfg := ctrl.RepConfig()
	if cfg.SmoothingWindow != 5 {
		t.Errorf("SmoothingWindow = %d, want 5", cfg.SmoothingWindow)
	}
	if cfg.Activity.BothMargin != 3.5 {
		t.Errorf("BothMargin = %v, want 3.5", cfg.Activity.BothMargin)
	}
}

func TestSettingsHandler_UpdateVoiceOnly(t *testing.T) {
	ctrl := newFakeController()
	handler := NewSettingsHandler(ctrl)

	if rec := putSettings(handler, `{"voice_enabled": true}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ctrl.RepConfig() != rep.DefaultConfig() {
		t.Error("tuning should be unchanged")
	}
	if !ctrl.VoiceEnabled() {
		t.Error("expected voice enabled")
	}
}

func TestSettingsHandler_UpdateErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		saveErr error
		status  int
	}{
		{"invalid json", `{"tuning":`, nil, http.StatusBadRequest},
		{"unknown tuning field", `{"tuning": {"min_curl": 40}}`, nil, http.StatusBadRequest},
		{"curl above extend", `{"tuning": {"min_curl_angle": 170}}`, nil, http.StatusBadRequest},
		{"bad cooldown", `{"tuning": {"rep_cooldown": "soon"}}`, nil, http.StatusBadRequest},
		{"voice save fails", `{"voice_enabled": true}`, errDisk, http.StatusInternalServerError},
		{"announcer save fails", `{"announcer": "chime"}`, errDisk, http.StatusInternalServerError},
		{"too large", `{"announcer": "` + strings.Repeat("a", maxSettingsBody) + `"}`, nil, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController()
			ctrl.saveErr = tt.saveErr
			handler := NewSettingsHandler(ctrl)

			rec := putSettings(handler, tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if ctrl.RepConfig() != rep.DefaultConfig() {
				t.Error("tuning should be unchanged after a failed update")
			}
		})
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSettingsHandler(newFakeController())

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/settings", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
