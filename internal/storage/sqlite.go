package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		exercise_count INTEGER NOT NULL,
		visited_count INTEGER NOT NULL,
		elapsed_sec INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		exercises_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_user_id ON sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_started_at ON sessions(started_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteRepository) SaveSession(record *SessionRecord) error {
	exercisesJSON, err := json.Marshal(record.Exercises)
	if err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO sessions
			(id, user_id, category_id, exercise_count, visited_count, elapsed_sec, completed, started_at, completed_at, exercises_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

func (r *SQLiteRepository) GetSessionsByUser(userID string) ([]SessionRecord, error) {
	query := `
		SELECT id, user_id, category_id, exercise_count, visited_count, elapsed_sec, completed, started_at, completed_at, exercises_json
		FROM sessions
		WHERE user_id = ?
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *SQLiteRepository) GetRecentSessions(userID string, since time.Time) ([]SessionRecord, error) {
	query := `
		SELECT id, user_id, category_id, exercise_count, visited_count, elapsed_sec, completed, started_at, completed_at, exercises_json
		FROM sessions
		WHERE user_id = ? AND started_at >= ?
		ORDER BY started_at DESC
	`

	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *SQLiteRepository) GetSessionStats(userID string) (*SessionStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN completed THEN 1 ELSE 0 END) as completed,
			SUM(elapsed_sec) as total_stretch,
			AVG(elapsed_sec) as avg_elapsed
		FROM sessions
		WHERE user_id = ?
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

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanSessions(rows *sql.Rows) ([]SessionRecord, error) {
	var records []SessionRecord

	for rows.Next() {
		var record SessionRecord
		var completedAt sql.NullTime
		var exercisesJSON string

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.CategoryID,
			&record.ExerciseCount,
			&record.VisitedCount,
			&record.ElapsedSec,
			&record.Completed,
			&record.StartedAt,
			&completedAt,
			&exercisesJSON,
		)
		if err != nil {
			return nil, err
		}

		if completedAt.Valid {
			record.CompletedAt = completedAt.Time
		}
		if err := json.Unmarshal([]byte(exercisesJSON), &record.Exercises); err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
