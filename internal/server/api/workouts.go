package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/curlcount/internal/store"
)

// defaultWorkoutLimit caps GET /api/workouts when no limit is given.
const defaultWorkoutLimit = 50

// WorkoutHandler handles HTTP requests for saved workouts.
type WorkoutHandler struct {
	store *store.Store
}

// NewWorkoutHandler creates a new WorkoutHandler with the given store.
func NewWorkoutHandler(s *store.Store) *WorkoutHandler {
	return &WorkoutHandler{store: s}
}

type workoutResponse struct {
	ID        string  `json:"id"`
	StartedAt string  `json:"started_at"`
	EndedAt   string  `json:"ended_at"`
	RightReps int     `json:"right_reps"`
	LeftReps  int     `json:"left_reps"`
	TotalReps int     `json:"total_reps"`
	Seconds   float64 `json:"duration_seconds"`
}

type listWorkoutsResponse struct {
	Workouts []workoutResponse `json:"workouts"`
}

func toWorkoutResponse(w *store.Workout) workoutResponse {
	return workoutResponse{
		ID:        w.ID,
		StartedAt: w.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:   w.EndedAt.UTC().Format(time.RFC3339),
		RightReps: w.RightReps,
		LeftReps:  w.LeftReps,
		TotalReps: w.TotalReps(),
		Seconds:   w.Duration().Seconds(),
	}
}

// ServeHTTP routes /api/workouts and /api/workouts/{id}.
func (h *WorkoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/workouts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, path)
	case http.MethodDelete:
		h.delete(w, path)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/workouts?limit=N, newest first.
func (h *WorkoutHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultWorkoutLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	workouts, err := h.store.Workouts().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workouts")
		return
	}

	response := listWorkoutsResponse{Workouts: make([]workoutResponse, 0, len(workouts))}
	for _, wk := range workouts {
		response.Workouts = append(response.Workouts, toWorkoutResponse(wk))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *WorkoutHandler) get(w http.ResponseWriter, id string) {
	wk, err := h.store.Workouts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Workout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get workout")
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutResponse(wk))
}

func (h *WorkoutHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Workouts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Workout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete workout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
