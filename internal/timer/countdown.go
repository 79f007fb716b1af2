// Package timer implements the per-exercise countdown as a pure,
// tick-driven state machine. It holds no goroutines and no wall clock;
// the session runner owns the ticker and serializes all calls.
package timer

// State is the countdown lifecycle state. Expiry is transient: the
// tick that reaches zero reports it and the countdown returns to Idle.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Countdown counts whole seconds down from a configured duration.
// Every operation is total: calls that are invalid for the current
// state are no-ops rather than errors.
type Countdown struct {
	state     State
	remaining int
}

func New() *Countdown {
	return &Countdown{state: Idle}
}

// Start arms the countdown for a new exercise. Any previous countdown
// is implicitly stopped; durations below one second leave it Idle.
func (c *Countdown) Start(durationSec int) {
	if durationSec <= 0 {
		c.state = Idle
		c.remaining = 0
		return
	}
	c.remaining = durationSec
	c.state = Running
}

// Pause freezes the remaining time. Only valid while Running.
func (c *Countdown) Pause() {
	if c.state == Running {
		c.state = Paused
	}
}

// Resume continues a paused countdown. Only valid while Paused.
func (c *Countdown) Resume() {
	if c.state == Paused {
		c.state = Running
	}
}

// Stop disarms the countdown without expiring it.
func (c *Countdown) Stop() {
	c.state = Idle
	c.remaining = 0
}

// Tick consumes one elapsed second. It reports true exactly once per
// armed countdown, on the tick that drains the last second; the
// countdown is Idle afterwards. Ticks outside Running are ignored.
func (c *Countdown) Tick() bool {
	if c.state != Running {
		return false
	}

	c.remaining--
	if c.remaining > 0 {
		return false
	}

	c.remaining = 0
	c.state = Idle
	return true
}

func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) State() State {
	return c.state
}
