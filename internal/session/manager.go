package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Abdalla2024/stretchApp/internal/access"
	"github.com/Abdalla2024/stretchApp/internal/catalog"
	"github.com/Abdalla2024/stretchApp/internal/domain"
	"github.com/Abdalla2024/stretchApp/internal/storage"
)

var ErrSessionNotFound = errors.New("session not found")

// PolicyFactory builds the access policy for a user, typically from
// their entitlement tier.
type PolicyFactory func(userID string) access.Policy

// Manager tracks the active runner for every live session.
type Manager struct {
	catalog  catalog.Provider
	gateway  storage.Gateway
	policies PolicyFactory
	logger   *slog.Logger

	mu      sync.Mutex
	runners map[string]*Runner
}

func NewManager(provider catalog.Provider, gateway storage.Gateway, policies PolicyFactory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		catalog:  provider,
		gateway:  gateway,
		policies: policies,
		logger:   logger,
		runners:  make(map[string]*Runner),
	}

	go m.cleanupLoop()

	return m
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanupOldSessions()
	}
}

func (m *Manager) cleanupOldSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)

	for id, r := range m.runners {
		s := r.Session()
		if s == nil {
			continue
		}
		if s.Completed && s.StartedAt.Before(cutoff) {
			r.Stop()
			delete(m.runners, id)
		}
	}
}

// StartSession opens a session for the category and begins its
// countdown. Catalog errors and empty categories are surfaced to the
// caller; nothing is registered on failure.
func (m *Manager) StartSession(ctx context.Context, userID, categoryID string) (*domain.Session, error) {
	ctrl := NewController(m.catalog, m.policies(userID), m.gateway, m.logger)

	s, err := ctrl.Start(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	r := NewRunner(ctrl)
	r.Run()

	m.mu.Lock()
	m.runners[s.ID] = r
	m.mu.Unlock()

	m.logger.Info("session started", "session", s.ID, "user", userID, "category", categoryID)
	return s, nil
}

func (m *Manager) runner(id string) (*Runner, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runners[id]
	return r, ok
}

func (m *Manager) GetSession(id string) (*domain.Session, bool) {
	r, ok := m.runner(id)
	if !ok {
		return nil, false
	}
	return r.Session(), true
}

func (m *Manager) Events(id string) (<-chan Event, bool) {
	r, ok := m.runner(id)
	if !ok {
		return nil, false
	}
	return r.Events(), true
}

func (m *Manager) Next(id string) (NavigationResult, error) {
	r, ok := m.runner(id)
	if !ok {
		return NavigationResult{}, ErrSessionNotFound
	}
	return r.Next(), nil
}

func (m *Manager) Previous(id string) (NavigationResult, error) {
	r, ok := m.runner(id)
	if !ok {
		return NavigationResult{}, ErrSessionNotFound
	}
	return r.Previous(), nil
}

func (m *Manager) Shuffle(id string) error {
	r, ok := m.runner(id)
	if !ok {
		return ErrSessionNotFound
	}
	r.Shuffle()
	return nil
}

func (m *Manager) Pause(id string) error {
	r, ok := m.runner(id)
	if !ok {
		return ErrSessionNotFound
	}
	r.Pause()
	return nil
}

func (m *Manager) Resume(id string) error {
	r, ok := m.runner(id)
	if !ok {
		return ErrSessionNotFound
	}
	r.Resume()
	return nil
}

// RestartSession begins a fresh session on the same runner. The session
// id changes, so the runner is re-keyed under the new id.
func (m *Manager) RestartSession(ctx context.Context, id string) (*domain.Session, error) {
	r, ok := m.runner(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	s, err := r.Restart(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	delete(m.runners, id)
	m.runners[s.ID] = r
	m.mu.Unlock()

	return s, nil
}

func (m *Manager) CompleteSession(id string) error {
	r, ok := m.runner(id)
	if !ok {
		return ErrSessionNotFound
	}
	r.Complete()
	return nil
}

// StopSession is the leave-session path: the countdown stops
// synchronously and the runner is dropped without completing.
func (m *Manager) StopSession(id string) error {
	m.mu.Lock()
	r, ok := m.runners[id]
	if ok {
		delete(m.runners, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	r.Stop()
	return nil
}
