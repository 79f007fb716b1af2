package storage

import "github.com/Abdalla2024/stretchApp/internal/domain"

// Gateway receives session progress notifications. Deliveries are
// best-effort: the session controller logs returned errors and never
// lets them affect in-memory session state.
type Gateway interface {
	OnSessionStarted(s *domain.Session) error
	OnProgress(s *domain.Session) error
	OnSessionCompleted(s *domain.Session) error
}

// Recorder persists session snapshots through a Repository.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) OnSessionStarted(s *domain.Session) error {
	return r.repo.SaveSession(FromSession(s))
}

func (r *Recorder) OnProgress(s *domain.Session) error {
	return r.repo.SaveSession(FromSession(s))
}

func (r *Recorder) OnSessionCompleted(s *domain.Session) error {
	return r.repo.SaveSession(FromSession(s))
}

// NopGateway discards all notifications.
type NopGateway struct{}

func (NopGateway) OnSessionStarted(*domain.Session) error   { return nil }
func (NopGateway) OnProgress(*domain.Session) error         { return nil }
func (NopGateway) OnSessionCompleted(*domain.Session) error { return nil }
