package session

import (
	"context"
	"sync"
	"time"

	"github.com/Abdalla2024/stretchApp/internal/domain"
	"github.com/Abdalla2024/stretchApp/internal/timer"
)

type EventType string

const (
	// EventTick is emitted once per counted second with the remaining time.
	EventTick EventType = "tick"
	// EventAdvanced is emitted when the position moves and the countdown re-arms.
	EventAdvanced EventType = "advanced"
	// EventAtEnd is emitted when the final exercise expires; the session
	// stays open awaiting an explicit Complete.
	EventAtEnd EventType = "at_end"
	// EventGatingRequired is emitted when everything ahead is gated.
	// ExerciseID names the blocking exercise for the upsell flow.
	EventGatingRequired EventType = "gating_required"
	// EventCompleted is emitted on explicit completion.
	EventCompleted EventType = "completed"
)

type Event struct {
	Type       EventType `json:"type"`
	SessionID  string    `json:"sessionId"`
	Index      int       `json:"index"`
	Remaining  int       `json:"remaining"`
	ElapsedSec int       `json:"elapsedSec"`
	ExerciseID string    `json:"exerciseId,omitempty"`
}

// TickerFactory supplies the runner's tick source. The returned stop
// function releases the underlying ticker.
type TickerFactory func() (<-chan time.Time, func())

func secondTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// Runner glues the controller to a countdown driven by a wall-clock
// ticker. One goroutine per session consumes ticks; every tick and
// every manual operation goes through the same mutex, so the countdown
// can never fire mid-navigation.
type Runner struct {
	ctrl  *Controller
	ticks TickerFactory

	mu      sync.Mutex
	clock   *timer.Countdown
	events  chan Event
	done    chan struct{}
	started bool
	stopped bool
}

type RunnerOption func(*Runner)

// WithTickerFactory substitutes the tick source, letting tests drive
// the runner without real time passing.
func WithTickerFactory(f TickerFactory) RunnerOption {
	return func(r *Runner) { r.ticks = f }
}

// NewRunner wraps a controller whose session has already been started.
func NewRunner(ctrl *Controller, opts ...RunnerOption) *Runner {
	r := &Runner{
		ctrl:   ctrl,
		ticks:  secondTicker,
		clock:  timer.New(),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run arms the countdown for the current exercise and starts the tick
// loop. Calling Run more than once is a no-op.
func (r *Runner) Run() {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.started = true
	if s := r.ctrl.Session(); s != nil {
		r.clock.Start(s.Current().DurationSec)
	}
	r.mu.Unlock()

	go r.loop()
}

func (r *Runner) loop() {
	ticks, stop := r.ticks()
	defer stop()

	for {
		select {
		case <-ticks:
			r.handleTick()
		case <-r.done:
			return
		}
	}
}

// handleTick consumes one second: countdown, elapsed accounting, tick
// event, and on expiry the auto-advance is resolved through the access
// policy before the handler returns, i.e. before the next tick cycle.
func (r *Runner) handleTick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clock.State() != timer.Running {
		return
	}

	expired := r.clock.Tick()
	r.ctrl.AddElapsed(1)

	s := r.ctrl.Session()
	if s == nil {
		return
	}
	r.emit(Event{
		Type:       EventTick,
		SessionID:  s.ID,
		Index:      s.CurrentIdx,
		Remaining:  r.clock.Remaining(),
		ElapsedSec: s.ElapsedSec,
	})

	if !expired {
		return
	}

	res := r.ctrl.Next()
	switch res.Outcome {
	case OutcomeAdvanced:
		r.rearmLocked(EventAdvanced)
	case OutcomeAtEnd:
		r.emit(Event{Type: EventAtEnd, SessionID: s.ID, Index: res.Index, ElapsedSec: s.ElapsedSec})
	case OutcomeNoFreeExerciseAhead:
		r.emitGatingLocked(res.Index)
	}
}

// Next performs manual forward navigation, re-arming the countdown on
// movement and surfacing the gating signal otherwise.
func (r *Runner) Next() NavigationResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.ctrl.Next()
	switch res.Outcome {
	case OutcomeAdvanced:
		r.rearmLocked(EventAdvanced)
	case OutcomeNoFreeExerciseAhead:
		r.emitGatingLocked(res.Index)
	}
	return res
}

// Previous steps back one exercise and re-arms the countdown.
func (r *Runner) Previous() NavigationResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.ctrl.Previous()
	if res.Outcome == OutcomeAdvanced {
		r.rearmLocked(EventAdvanced)
	}
	return res
}

// Shuffle permutes the sequence, resets position and elapsed time, and
// re-arms the countdown for the new first exercise.
func (r *Runner) Shuffle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctrl.Shuffle()
	r.rearmLocked(EventAdvanced)
}

// Restart re-fetches the catalog and begins a fresh session. The
// session id changes; callers tracking runners by id must re-key.
func (r *Runner) Restart(ctx context.Context) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.ctrl.Restart(ctx)
	if err != nil {
		return nil, err
	}
	r.rearmLocked(EventAdvanced)
	return s, nil
}

func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock.Pause()
}

func (r *Runner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock.Resume()
}

// Complete stops the countdown and ends the session explicitly.
func (r *Runner) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clock.Stop()
	r.ctrl.Complete()

	if s := r.ctrl.Session(); s != nil {
		r.emit(Event{Type: EventCompleted, SessionID: s.ID, Index: s.CurrentIdx, ElapsedSec: s.ElapsedSec})
	}
}

// Stop synchronously disarms the countdown and ends the tick loop.
// No expiry fires and no further ticks are counted.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	r.stopped = true
	r.clock.Stop()
	close(r.done)
}

func (r *Runner) Events() <-chan Event {
	return r.events
}

func (r *Runner) Session() *domain.Session {
	return r.ctrl.Session()
}

func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock.Remaining()
}

func (r *Runner) rearmLocked(t EventType) {
	s := r.ctrl.Session()
	if s == nil {
		return
	}
	r.clock.Start(s.Current().DurationSec)
	r.emit(Event{
		Type:       t,
		SessionID:  s.ID,
		Index:      s.CurrentIdx,
		Remaining:  r.clock.Remaining(),
		ElapsedSec: s.ElapsedSec,
	})
}

func (r *Runner) emitGatingLocked(index int) {
	s := r.ctrl.Session()
	if s == nil {
		return
	}
	// The scan stopped at the first restricted, denied exercise.
	blocked := s.Exercises[index+1]
	r.emit(Event{
		Type:       EventGatingRequired,
		SessionID:  s.ID,
		Index:      index,
		ElapsedSec: s.ElapsedSec,
		ExerciseID: blocked.ID,
	})
}

func (r *Runner) emit(e Event) {
	select {
	case r.events <- e:
	default:
	}
}
