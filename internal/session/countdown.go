package session

const DefaultQuestionSeconds = 30

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
	TimerStopped TimerState = "stopped"
)

// Countdown is the per-question timer as plain data. The controller owns the
// real ticker and feeds ticks back tagged with Generation; a tick from any
// other generation belongs to a cancelled countdown and is dropped.
type Countdown struct {
	Duration   int
	Remaining  int
	State      TimerState
	Generation uint64
}

func NewCountdown(seconds int) Countdown {
	if seconds <= 0 {
		seconds = DefaultQuestionSeconds
	}
	return Countdown{
		Duration:  seconds,
		Remaining: seconds,
		State:     TimerIdle,
	}
}

func (c *Countdown) Start() uint64 {
	c.Generation++
	c.Remaining = c.Duration
	c.State = TimerRunning
	return c.Generation
}

func (c *Countdown) Stop() {
	if c.State == TimerRunning {
		c.State = TimerStopped
	}
}

func (c *Countdown) Reset() uint64 {
	c.Stop()
	return c.Start()
}

// Tick applies one tick. applied is false for stale or non-running ticks;
// expired is true exactly once, on the tick that reaches zero.
func (c *Countdown) Tick(generation uint64) (applied, expired bool) {
	if c.State != TimerRunning || generation != c.Generation {
		return false, false
	}
	c.Remaining--
	if c.Remaining <= 0 {
		c.Remaining = 0
		c.State = TimerExpired
		return true, true
	}
	return true, false
}
