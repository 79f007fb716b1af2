package storage

import (
	"time"

	"github.com/Abdalla2024/stretchApp/internal/domain"
)

// SessionRecord is the persisted shape of a session snapshot. The same
// record is written on start, progress, and completion; the repository
// upserts by id.
type SessionRecord struct {
	ID            string
	UserID        string
	CategoryID    string
	ExerciseCount int
	VisitedCount  int
	ElapsedSec    int
	Completed     bool
	StartedAt     time.Time
	CompletedAt   time.Time // zero until the session completes
	Exercises     []ExerciseRecord
}

type ExerciseRecord struct {
	ID          string `json:"id"`
	Ordinal     int    `json:"ordinal"`
	Name        string `json:"name"`
	DurationSec int    `json:"durationSec"`
	Restricted  bool   `json:"restricted"`
}

// FromSession converts a session snapshot to its persisted record.
func FromSession(s *domain.Session) *SessionRecord {
	exercises := make([]ExerciseRecord, len(s.Exercises))
	for i, ex := range s.Exercises {
		exercises[i] = ExerciseRecord{
			ID:          ex.ID,
			Ordinal:     ex.Ordinal,
			Name:        ex.Name,
			DurationSec: ex.DurationSec,
			Restricted:  ex.Restricted,
		}
	}

	return &SessionRecord{
		ID:            s.ID,
		UserID:        s.UserID,
		CategoryID:    s.CategoryID,
		ExerciseCount: len(s.Exercises),
		VisitedCount:  s.VisitedCount,
		ElapsedSec:    s.ElapsedSec,
		Completed:     s.Completed,
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
		Exercises:     exercises,
	}
}
