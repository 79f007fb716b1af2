package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyCatalog is returned when a session is started with no exercises.
var ErrEmptyCatalog = errors.New("empty exercise catalog")

// Session is one run-through of a category's exercise sequence. The
// exercise slice is a snapshot taken at start; later catalog edits do
// not affect a running session.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	CategoryID   string     `json:"categoryId"`
	Exercises    []Exercise `json:"exercises"`
	CurrentIdx   int        `json:"currentIdx"`
	ElapsedSec   int        `json:"elapsedSec"`
	VisitedCount int        `json:"visitedCount"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  time.Time  `json:"completedAt,omitzero"`
	Completed    bool       `json:"completed"`
	Active       bool       `json:"active"`
}

// NewSession snapshots the exercise sequence and positions at index 0.
func NewSession(id, userID, categoryID string, exercises []Exercise) (*Session, error) {
	if len(exercises) == 0 {
		return nil, ErrEmptyCatalog
	}

	if id == "" {
		id = uuid.New().String()
	}

	snapshot := make([]Exercise, len(exercises))
	copy(snapshot, exercises)

	return &Session{
		ID:         id,
		UserID:     userID,
		CategoryID: categoryID,
		Exercises:  snapshot,
		CurrentIdx: 0,
		ElapsedSec: 0,
		StartedAt:  time.Now(),
		Active:     true,
	}, nil
}

// Current returns the exercise at the session's current position.
func (s *Session) Current() Exercise {
	return s.Exercises[s.CurrentIdx]
}

// AtLastExercise reports whether the current position is the final one.
func (s *Session) AtLastExercise() bool {
	return s.CurrentIdx == len(s.Exercises)-1
}

// Clone returns a copy safe to hand to callers while the original keeps
// mutating under the controller's lock.
func (s *Session) Clone() *Session {
	c := *s
	c.Exercises = make([]Exercise, len(s.Exercises))
	copy(c.Exercises, s.Exercises)
	return &c
}
