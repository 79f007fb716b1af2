package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		exercise_count INTEGER NOT NULL,
		visited_count INTEGER NOT NULL,
		elapsed_sec INTEGER NOT NULL,
		completed BOOLEAN NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		exercises_json JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_user_id ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_started_at ON sessions(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) SaveSession(record *SessionRecord) error {
	exercisesJSON, err := json.Marshal(record.Exercises)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions
			(id, user_id, category_id, exercise_count, visited_count, elapsed_sec, completed, started_at, completed_at, exercises_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			visited_count = EXCLUDED.visited_count,
			elapsed_sec = EXCLUDED.elapsed_sec,
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at,
			exercises_json = EXCLUDED.exercises_json
	`

	_, err = r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.CategoryID,
		record.ExerciseCount,
		record.VisitedCount,
		record.ElapsedSec,
		record.Completed,
		record.StartedAt,
		nullableTime(record.CompletedAt),
		exercisesJSON,
	)

	return err
}

func (r *PostgresRepository) GetSessionsByUser(userID string) ([]SessionRecord, error) {
	query := `
		SELECT id, user_id, category_id, exercise_count, visited_count, elapsed_sec, completed, started_at, completed_at, exercises_json
		FROM sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *PostgresRepository) GetRecentSessions(userID string, since time.Time) ([]SessionRecord, error) {
	query := `
		SELECT id, user_id, category_id, exercise_count, visited_count, elapsed_sec, completed, started_at, completed_at, exercises_json
		FROM sessions
		WHERE user_id = $1 AND started_at >= $2
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *PostgresRepository) GetSessionStats(userID string) (*SessionStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN completed THEN 1 ELSE 0 END) as completed,
			SUM(elapsed_sec) as total_stretch,
			AVG(elapsed_sec) as avg_elapsed
		FROM sessions
		WHERE user_id = $1
	`

	var stats SessionStats
	var completedCount sql.NullInt64
	var totalStretch sql.NullInt64
	var avgElapsed sql.NullFloat64

	err := r.db.QueryRow(query, userID).Scan(
		&stats.TotalSessions,
		&completedCount,
		&totalStretch,
		&avgElapsed,
	)

	if err != nil {
		return nil, err
	}

	if completedCount.Valid {
		stats.CompletedCount = int(completedCount.Int64)
	}
	if totalStretch.Valid {
		stats.TotalStretchSec = int(totalStretch.Int64)
	}
	if avgElapsed.Valid {
		stats.AverageElapsed = avgElapsed.Float64
	}
	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedCount) / float64(stats.TotalSessions) * 100
	}

	return &stats, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
