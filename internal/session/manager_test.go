package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdalla2024/stretchApp/internal/access"
	"github.com/Abdalla2024/stretchApp/internal/domain"
)

func newTestManager(exercises []domain.Exercise) *Manager {
	provider := &fakeCatalog{exercises: exercises}
	policies := func(userID string) access.Policy { return access.NewEntitlement(false) }
	return NewManager(provider, nil, policies, nil)
}

func TestManagerStartAndGet(t *testing.T) {
	m := newTestManager(gatedSequence())

	s, err := m.StartSession(context.Background(), "user-1", "neck")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.StopSession(s.ID) })

	got, ok := m.GetSession(s.ID)
	require.True(t, ok)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 0, got.CurrentIdx)
}

func TestManagerStartEmptyCatalog(t *testing.T) {
	m := newTestManager(nil)

	_, err := m.StartSession(context.Background(), "user-1", "neck")
	require.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestManagerNavigation(t *testing.T) {
	m := newTestManager(gatedSequence())

	s, err := m.StartSession(context.Background(), "user-1", "neck")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.StopSession(s.ID) })

	res, err := m.Next(s.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Equal(t, 3, res.Index, "gated b and c skipped")

	res, err = m.Previous(s.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Equal(t, 2, res.Index)
}

func TestManagerUnknownSession(t *testing.T) {
	m := newTestManager(gatedSequence())

	_, err := m.Next("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Shuffle("missing"), ErrSessionNotFound)
	assert.ErrorIs(t, m.Pause("missing"), ErrSessionNotFound)
	assert.ErrorIs(t, m.CompleteSession("missing"), ErrSessionNotFound)
	assert.ErrorIs(t, m.StopSession("missing"), ErrSessionNotFound)
}

func TestManagerStopRemovesSession(t *testing.T) {
	m := newTestManager(gatedSequence())

	s, err := m.StartSession(context.Background(), "user-1", "neck")
	require.NoError(t, err)

	require.NoError(t, m.StopSession(s.ID))

	_, ok := m.GetSession(s.ID)
	assert.False(t, ok)
}

func TestManagerCompleteSession(t *testing.T) {
	m := newTestManager(gatedSequence())

	s, err := m.StartSession(context.Background(), "user-1", "neck")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.StopSession(s.ID) })

	require.NoError(t, m.CompleteSession(s.ID))

	got, ok := m.GetSession(s.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.False(t, got.Active)
}

func TestManagerRestartRekeys(t *testing.T) {
	m := newTestManager(gatedSequence())

	s, err := m.StartSession(context.Background(), "user-1", "neck")
	require.NoError(t, err)

	restarted, err := m.RestartSession(context.Background(), s.ID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.StopSession(restarted.ID) })

	assert.NotEqual(t, s.ID, restarted.ID)

	_, ok := m.GetSession(s.ID)
	assert.False(t, ok, "old id must be dropped")

	got, ok := m.GetSession(restarted.ID)
	require.True(t, ok)
	assert.Equal(t, 0, got.CurrentIdx)
}

func TestManagerEvents(t *testing.T) {
	m := newTestManager(gatedSequence())

	s, err := m.StartSession(context.Background(), "user-1", "neck")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.StopSession(s.ID) })

	_, ok := m.Events(s.ID)
	assert.True(t, ok)

	_, ok = m.Events("missing")
	assert.False(t, ok)
}
