package clock

import "time"

// Timer is a wall-clock deadline. A timer that has never been set, or has
// been reset, reports itself finished.
type Timer struct {
	clock    Clock
	start    time.Time
	end      time.Time
	armed    bool
	duration time.Duration
}

func NewTimer(c Clock) *Timer {
	return &Timer{clock: c}
}

// Set arms the timer to expire d from now, replacing any previous deadline.
func (t *Timer) Set(d time.Duration) {
	now := t.clock.Now()
	t.start = now
	t.end = now.Add(d)
	t.duration = d
	t.armed = true
}

// Reset disarms the timer.
func (t *Timer) Reset() {
	t.armed = false
	t.end = time.Time{}
}

func (t *Timer) Armed() bool             { return t.armed }
func (t *Timer) Duration() time.Duration { return t.duration }

func (t *Timer) IsFinished() bool {
	if !t.armed {
		return true
	}
	return !t.clock.Now().Before(t.end)
}

// Remaining never goes negative.
func (t *Timer) Remaining() time.Duration {
	if !t.armed {
		return 0
	}
	if left := t.end.Sub(t.clock.Now()); left > 0 {
		return left
	}
	return 0
}

// TimePassed is the full duration once finished, otherwise the time since Set.
func (t *Timer) TimePassed() time.Duration {
	if t.IsFinished() {
		return t.duration
	}
	return t.clock.Now().Sub(t.start)
}
