package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdalla2024/stretchApp/internal/access"
	"github.com/Abdalla2024/stretchApp/internal/domain"
)

// newTestRunner starts a runner fed by a manual tick channel. Sends on
// the channel block until the loop goroutine picks them up, and each
// counted tick produces an event, which is what the tests synchronize on.
func newTestRunner(t *testing.T, exercises []domain.Exercise, policy access.Policy) (*Runner, chan time.Time) {
	t.Helper()

	ctrl := NewController(&fakeCatalog{exercises: exercises}, policy, nil, nil)
	_, err := ctrl.Start(context.Background(), "user-1", "neck")
	require.NoError(t, err)

	ticks := make(chan time.Time)
	r := NewRunner(ctrl, WithTickerFactory(func() (<-chan time.Time, func()) {
		return ticks, func() {}
	}))
	r.Run()
	t.Cleanup(r.Stop)

	return r, ticks
}

func sendTick(t *testing.T, ticks chan time.Time) {
	t.Helper()
	select {
	case ticks <- time.Now():
	case <-time.After(time.Second):
		t.Fatal("runner loop did not accept tick")
	}
}

func nextEvent(t *testing.T, r *Runner) Event {
	t.Helper()
	select {
	case e := <-r.Events():
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for runner event")
		return Event{}
	}
}

func TestRunnerCountsDownAndAdvances(t *testing.T) {
	exercises := []domain.Exercise{
		{ID: "a", DurationSec: 2},
		{ID: "b", DurationSec: 3},
	}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	e := nextEvent(t, r)
	assert.Equal(t, EventTick, e.Type)
	assert.Equal(t, 1, e.Remaining)
	assert.Equal(t, 1, e.ElapsedSec)

	sendTick(t, ticks)
	e = nextEvent(t, r)
	assert.Equal(t, EventTick, e.Type)
	assert.Equal(t, 0, e.Remaining)

	// Expiry resolves the auto-advance before anything else happens.
	e = nextEvent(t, r)
	assert.Equal(t, EventAdvanced, e.Type)
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, 3, e.Remaining, "countdown re-armed for the next exercise")

	s := r.Session()
	assert.Equal(t, "b", s.Current().ID)
	assert.Equal(t, 2, s.ElapsedSec)
}

func TestRunnerExpiryGatingSignal(t *testing.T) {
	exercises := []domain.Exercise{
		{ID: "a", DurationSec: 1},
		{ID: "b", DurationSec: 30, Restricted: true},
	}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	require.Equal(t, EventTick, nextEvent(t, r).Type)

	e := nextEvent(t, r)
	assert.Equal(t, EventGatingRequired, e.Type)
	assert.Equal(t, "b", e.ExerciseID)
	assert.Equal(t, 0, e.Index)

	s := r.Session()
	assert.Equal(t, 0, s.CurrentIdx, "gating must not move the position")
	assert.False(t, s.Completed)
}

func TestRunnerExpiryAtEndDoesNotComplete(t *testing.T) {
	exercises := []domain.Exercise{{ID: "a", DurationSec: 1}}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	require.Equal(t, EventTick, nextEvent(t, r).Type)

	e := nextEvent(t, r)
	assert.Equal(t, EventAtEnd, e.Type)
	assert.False(t, r.Session().Completed, "AtEnd awaits an explicit Complete")
	assert.True(t, r.Session().Active)
}

func TestRunnerPauseSwallowsTicks(t *testing.T) {
	exercises := []domain.Exercise{{ID: "a", DurationSec: 30}}
	r, ticks := newTestRunner(t, exercises, denyAll())

	for i := 0; i < 5; i++ {
		sendTick(t, ticks)
		require.Equal(t, EventTick, nextEvent(t, r).Type)
	}
	r.Pause()
	paused := r.Remaining()
	require.Equal(t, 25, paused)

	// Ticks during pause are delivered to the loop but not counted.
	for i := 0; i < 5; i++ {
		sendTick(t, ticks)
	}
	// Let the last in-flight paused tick drain before resuming.
	time.Sleep(10 * time.Millisecond)

	r.Resume()
	for i := 0; i < 10; i++ {
		sendTick(t, ticks)
		e := nextEvent(t, r)
		require.Equal(t, EventTick, e.Type)
	}

	assert.Equal(t, paused-10, r.Remaining(), "only post-resume ticks count")
	assert.Equal(t, 15, r.Session().ElapsedSec)
}

func TestRunnerManualNextRearms(t *testing.T) {
	exercises := []domain.Exercise{
		{ID: "a", DurationSec: 30},
		{ID: "b", DurationSec: 20},
	}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	require.Equal(t, EventTick, nextEvent(t, r).Type)

	res := r.Next()
	require.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.Equal(t, 20, r.Remaining(), "fresh countdown for the new exercise")

	e := nextEvent(t, r)
	assert.Equal(t, EventAdvanced, e.Type)
	assert.Equal(t, 1, e.Index)
}

func TestRunnerManualNextGatingEvent(t *testing.T) {
	exercises := []domain.Exercise{
		{ID: "a", DurationSec: 30},
		{ID: "b", DurationSec: 30, Restricted: true},
	}
	r, _ := newTestRunner(t, exercises, denyAll())

	res := r.Next()
	require.Equal(t, OutcomeNoFreeExerciseAhead, res.Outcome)

	e := nextEvent(t, r)
	assert.Equal(t, EventGatingRequired, e.Type)
	assert.Equal(t, "b", e.ExerciseID)
	assert.Equal(t, 30, r.Remaining(), "current countdown keeps running")
}

func TestRunnerShuffleRearmsAtZero(t *testing.T) {
	exercises := []domain.Exercise{
		{ID: "a", DurationSec: 10},
		{ID: "b", DurationSec: 20},
		{ID: "c", DurationSec: 40},
	}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	require.Equal(t, EventTick, nextEvent(t, r).Type)

	r.Shuffle()

	s := r.Session()
	assert.Equal(t, 0, s.CurrentIdx)
	assert.Equal(t, 0, s.ElapsedSec)
	assert.Equal(t, s.Current().DurationSec, r.Remaining())
}

func TestRunnerCompleteStopsCountdown(t *testing.T) {
	exercises := []domain.Exercise{{ID: "a", DurationSec: 30}}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	require.Equal(t, EventTick, nextEvent(t, r).Type)

	r.Complete()
	e := nextEvent(t, r)
	assert.Equal(t, EventCompleted, e.Type)
	assert.Equal(t, 0, r.Remaining())

	s := r.Session()
	assert.True(t, s.Completed)
	assert.False(t, s.Active)
	assert.Equal(t, 1, s.ElapsedSec)
}

func TestRunnerStopLeavesNoOrphanedTicks(t *testing.T) {
	exercises := []domain.Exercise{{ID: "a", DurationSec: 30}}
	r, ticks := newTestRunner(t, exercises, denyAll())

	sendTick(t, ticks)
	require.Equal(t, EventTick, nextEvent(t, r).Type)

	r.Stop()

	assert.Equal(t, 0, r.Remaining(), "countdown disarmed synchronously")
	s := r.Session()
	assert.False(t, s.Completed, "leaving a session is not completion")
	assert.Equal(t, 1, s.ElapsedSec, "already committed elapsed time stays")
}
