package storage

import "time"

type Repository interface {
	// SaveSession inserts a record or replaces the one with the same id.
	SaveSession(record *SessionRecord) error

	GetSessionsByUser(userID string) ([]SessionRecord, error)

	GetRecentSessions(userID string, since time.Time) ([]SessionRecord, error)

	GetSessionStats(userID string) (*SessionStats, error)

	Close() error
}

type SessionStats struct {
	TotalSessions   int     `json:"totalSessions"`
	CompletedCount  int     `json:"completedCount"`
	TotalStretchSec int     `json:"totalStretchSec"`
	AverageElapsed  float64 `json:"averageElapsed"`
	CompletionRate  float64 `json:"completionRate"`
}
