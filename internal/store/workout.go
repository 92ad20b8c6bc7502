package store

import (
	"database/sql"
	"errors"
	"time"
)

// Workout summarizes one finished counting session.
type Workout struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	RightReps int       `json:"right_reps"`
	LeftReps  int       `json:"left_reps"`
}

// TotalReps returns the reps of both arms.
func (w *Workout) TotalReps() int {
	return w.RightReps + w.LeftReps
}

// Duration returns how long the workout lasted.
func (w *Workout) Duration() time.Duration {
	return w.EndedAt.Sub(w.StartedAt)
}

// WorkoutRepository provides CRUD operations for workouts.
type WorkoutRepository struct {
	db *sql.DB
}

// Workouts returns the workout repository for this store.
func (s *Store) Workouts() *WorkoutRepository {
	return &WorkoutRepository{db: s.db}
}

// Create inserts a workout. The ID is the session ID, so saving the same
// session twice fails.
func (r *WorkoutRepository) Create(w *Workout) error {
	_, err := r.db.Exec(
		`INSERT INTO workouts (id, started_at, ended_at, right_reps, left_reps)
		 VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.StartedAt.UTC(), w.EndedAt.UTC(), w.RightReps, w.LeftReps,
	)
	return err
}

// GetByID retrieves a workout by its ID.
func (r *WorkoutRepository) GetByID(id string) (*Workout, error) {
	w := &Workout{}
	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, right_reps, left_reps
		 FROM workouts WHERE id = ?`,
		id,
	).Scan(&w.ID, &w.StartedAt, &w.EndedAt, &w.RightReps, &w.LeftReps)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

// List returns the most recent workouts first. A limit of zero or less
// returns all of them.
func (r *WorkoutRepository) List(limit int) ([]*Workout, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, right_reps, left_reps
		 FROM workouts ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []*Workout
	for rows.Next() {
		w := &Workout{}
		if err := rows.Scan(&w.ID, &w.StartedAt, &w.EndedAt, &w.RightReps, &w.LeftReps); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Delete removes a workout by its ID.
func (r *WorkoutRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
