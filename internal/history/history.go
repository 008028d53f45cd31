// Package history records finished workout sessions. It sits outside
// the timing core: its only input is the session completion event and
// its only reader is the history view.
package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Workout is one completed timer session.
type Workout struct {
	ID              int64
	Mode            string
	DurationSeconds int
	Rounds          int
	FinishedAt      time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	repo := &Repository{db: db}
	if err := repo.init(); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *Repository) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS workouts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mode TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		rounds INTEGER NOT NULL DEFAULT 0,
		finished_at TEXT NOT NULL
	)
	`
	_, err := r.db.Exec(query)
	return err
}

func (r *Repository) Save(w *Workout) error {
	result, err := r.db.Exec(
		"INSERT INTO workouts (mode, duration_seconds, rounds, finished_at) VALUES (?, ?, ?, ?)",
		w.Mode, w.DurationSeconds, w.Rounds, w.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = id
	return nil
}

// Recent returns up to limit workouts, newest first.
func (r *Repository) Recent(limit int) ([]Workout, error) {
	rows, err := r.db.Query(
		"SELECT id, mode, duration_seconds, rounds, finished_at FROM workouts ORDER BY finished_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		var finishedAt string
		if err := rows.Scan(&w.ID, &w.Mode, &w.DurationSeconds, &w.Rounds, &finishedAt); err != nil {
			return nil, err
		}
		w.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
