package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock.
var System Clock = systemClock{}

// Manual is a clock that only moves when told to. Used by tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Frame samples its source once per Tick so that every query made during a
// single frame observes the same instant.
type Frame struct {
	source Clock
	now    time.Time
}

func NewFrame(source Clock) *Frame {
	f := &Frame{source: source}
	f.Tick()
	return f
}

// Tick re-samples the source clock. Hosts call it once at the top of a frame.
func (f *Frame) Tick() time.Time {
	f.now = f.source.Now()
	return f.now
}

func (f *Frame) Now() time.Time { return f.now }
