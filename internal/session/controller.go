// Package session drives a user through one category's timed exercise
// sequence: navigation, shuffling, gating, elapsed-time accounting and
// completion.
package session

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Abdalla2024/stretchApp/internal/access"
	"github.com/Abdalla2024/stretchApp/internal/catalog"
	"github.com/Abdalla2024/stretchApp/internal/domain"
	"github.com/Abdalla2024/stretchApp/internal/storage"
)

// Controller owns one session's state. All mutating operations are
// serialized behind a single mutex so ticker-driven and manual calls
// never interleave. Persistence notifications are best-effort: failures
// are logged and never change the returned result.
type Controller struct {
	catalog catalog.Provider
	policy  access.Policy
	gateway storage.Gateway
	logger  *slog.Logger
	rng     *rand.Rand

	mu       sync.Mutex
	userID   string
	category string
	session  *domain.Session
}

func NewController(provider catalog.Provider, policy access.Policy, gateway storage.Gateway, logger *slog.Logger) *Controller {
	if gateway == nil {
		gateway = storage.NopGateway{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		catalog: provider,
		policy:  policy,
		gateway: gateway,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start fetches a fresh catalog snapshot for the category and opens a
// new session at index 0. Catalog failures are surfaced unchanged; an
// empty category fails with domain.ErrEmptyCatalog and leaves no
// session behind.
func (c *Controller) Start(ctx context.Context, userID, categoryID string) (*domain.Session, error) {
	exercises, err := c.catalog.FetchExercises(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	s, err := domain.NewSession("", userID, categoryID, exercises)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.userID = userID
	c.category = categoryID
	c.session = s

	c.notify(c.gateway.OnSessionStarted, "session started")
	return s.Clone(), nil
}

// Restart discards the current session and starts over with a
// re-fetched snapshot of the same category, picking up catalog edits.
func (c *Controller) Restart(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	userID, categoryID := c.userID, c.category
	c.mu.Unlock()

	return c.Start(ctx, userID, categoryID)
}

// Session returns a snapshot of the current session, or nil before Start.
func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	return c.session.Clone()
}

// Next advances toward the end of the sequence. Restricted exercises
// the policy denies are skipped by a strictly forward scan that never
// wraps; if nothing ahead is accessible the index stays put.
func (c *Controller) Next() NavigationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return NavigationResult{Outcome: OutcomeAtEnd, Index: -1}
	}
	if s.AtLastExercise() {
		return NavigationResult{Outcome: OutcomeAtEnd, Index: s.CurrentIdx}
	}

	for cand := s.CurrentIdx + 1; cand < len(s.Exercises); cand++ {
		ex := s.Exercises[cand]
		if ex.Restricted && !c.policy.CanAccess(ex) {
			continue
		}
		s.CurrentIdx = cand
		s.VisitedCount++
		c.notify(c.gateway.OnProgress, "session progress")
		return NavigationResult{Outcome: OutcomeAdvanced, Index: cand}
	}

	return NavigationResult{Outcome: OutcomeNoFreeExerciseAhead, Index: s.CurrentIdx}
}

// Previous steps back exactly one position. Gating only applies going
// forward, so no policy check and no skipping.
func (c *Controller) Previous() NavigationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return NavigationResult{Outcome: OutcomeAtStart, Index: -1}
	}
	if s.CurrentIdx == 0 {
		return NavigationResult{Outcome: OutcomeAtStart, Index: 0}
	}

	s.CurrentIdx--
	c.notify(c.gateway.OnProgress, "session progress")
	return NavigationResult{Outcome: OutcomeAdvanced, Index: s.CurrentIdx}
}

// Shuffle uniformly permutes the full exercise snapshot and resets the
// position and elapsed time.
func (c *Controller) Shuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}

	c.rng.Shuffle(len(s.Exercises), func(i, j int) {
		s.Exercises[i], s.Exercises[j] = s.Exercises[j], s.Exercises[i]
	})
	s.CurrentIdx = 0
	s.ElapsedSec = 0
	c.notify(c.gateway.OnProgress, "session progress")
}

// Complete ends the session explicitly. Idempotent: the completion
// timestamp is stamped exactly once.
func (c *Controller) Complete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || s.Completed {
		return
	}

	s.Completed = true
	s.Active = false
	s.CompletedAt = time.Now()
	c.notify(c.gateway.OnSessionCompleted, "session completed")
}

// AddElapsed accumulates stretch time while the session is active.
// Calls on an inactive session are silently ignored.
func (c *Controller) AddElapsed(seconds int) {
	if seconds < 1 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || !s.Active {
		return
	}
	s.ElapsedSec += seconds
}

// notify delivers a snapshot to the persistence gateway. Must be called
// with the lock held and a non-nil session.
func (c *Controller) notify(deliver func(*domain.Session) error, event string) {
	if err := deliver(c.session.Clone()); err != nil {
		c.logger.Warn("persistence notification failed",
			"event", event, "session", c.session.ID, "error", err)
	}
}
