// Package server provides the HTTP server for the curl counter.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/curlcount/internal/capture"
	"github.com/ayusman/curlcount/internal/log"
	"github.com/ayusman/curlcount/internal/server/api"
	"github.com/ayusman/curlcount/internal/session"
	"github.com/ayusman/curlcount/internal/store"
)

// Controller is the application surface the server exposes.
type Controller interface {
	api.SessionController
	api.SettingsController
	Subscribe(fn func(session.Result)) (unsubscribe func())
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       Controller
	Store     *store.Store
	Frames    *capture.FrameBuffer
}

// Server represents the HTTP server for the curl counter.
type Server struct {
	config      Config
	mux         *http.ServeMux
	start       time.Time
	hub         *ResultsHub
	unsubscribe func()
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.App != nil {
		sessionHandler := api.NewSessionHandler(s.config.App)
		s.mux.Handle("/api/session", sessionHandler)
		s.mux.Handle("/api/session/", sessionHandler)
		s.mux.Handle("/api/settings", api.NewSettingsHandler(s.config.App))

		s.hub = NewResultsHub()
		s.unsubscribe = s.config.App.Subscribe(s.hub.Publish)
		s.mux.Handle("/api/results", s.hub)
	}

	if s.config.Store != nil {
		workoutHandler := api.NewWorkoutHandler(s.config.Store)
		s.mux.Handle("/api/workouts", workoutHandler)
		s.mux.Handle("/api/workouts/", workoutHandler)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.hub != nil {
		response["clients"] = s.hub.Clients()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Close detaches the server from the application and disconnects
// WebSocket clients.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.hub != nil {
		s.hub.Close()
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
