package session

import (
	"time"

	"github.com/san-kum/perhabs/internal/clock"
)

// preallocLimit caps the results buffer reserved up front. Repetition
// budgets can be far larger than any session will reach.
const preallocLimit = 256

// Evaluation is a scoring session bounded by a duration, a repetition count,
// or both. A zero duration means the session ends on repetitions alone.
type Evaluation[T any] struct {
	clock       clock.Clock
	timer       *clock.Timer
	duration    time.Duration
	repetitions int
	score       func(T) float64

	start    time.Time
	end      time.Time
	finished bool
	results  []T
}

func New[T any](c clock.Clock, duration time.Duration, repetitions int, score func(T) float64) *Evaluation[T] {
	return &Evaluation[T]{
		clock:       c,
		timer:       clock.NewTimer(c),
		duration:    duration,
		repetitions: repetitions,
		score:       score,
		results:     make([]T, 0, min(max(repetitions, 0), preallocLimit)),
	}
}

// NewBool scores each result as 1 when true.
func NewBool(c clock.Clock, duration time.Duration, repetitions int) *Evaluation[bool] {
	return New(c, duration, repetitions, BoolScore)
}

// NewFloat scores each result by its own value.
func NewFloat(c clock.Clock, duration time.Duration, repetitions int) *Evaluation[float64] {
	return New(c, duration, repetitions, FloatScore)
}

func BoolScore(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func FloatScore(f float64) float64 { return f }

// Start resets timing and re-arms the duration timer. Recorded results are
// kept.
func (e *Evaluation[T]) Start() {
	e.start = e.clock.Now()
	e.end = time.Time{}
	e.finished = false
	if e.duration > 0 {
		e.timer.Set(e.duration)
	} else {
		e.timer.Reset()
	}
}

func (e *Evaluation[T]) AddResult(r T) {
	e.results = append(e.results, r)
}

// IsFinished latches: the end time is stamped the first time a bound is
// crossed and left alone afterwards until Start.
func (e *Evaluation[T]) IsFinished() bool {
	if e.finished {
		return true
	}
	repsDone := e.repetitions > 0 && len(e.results) >= e.repetitions
	timeUp := e.duration > 0 && e.timer.IsFinished()
	if repsDone || timeUp {
		e.finished = true
		e.end = e.clock.Now()
	}
	return e.finished
}

func (e *Evaluation[T]) Duration() time.Duration { return e.duration }
func (e *Evaluation[T]) Repetitions() int        { return e.repetitions }
func (e *Evaluation[T]) RepsDone() int           { return len(e.results) }

func (e *Evaluation[T]) TimeRemaining() time.Duration {
	if e.duration <= 0 {
		return 0
	}
	return e.timer.Remaining()
}

func (e *Evaluation[T]) RepsRemaining() int {
	if left := e.repetitions - len(e.results); left > 0 {
		return left
	}
	return 0
}

func (e *Evaluation[T]) TimeTaken() time.Duration {
	if e.start.IsZero() {
		return 0
	}
	if e.finished {
		return e.end.Sub(e.start)
	}
	return e.clock.Now().Sub(e.start)
}

// AverageScore is 0 when nothing has been recorded, which happens when a
// session ends on time before the first response.
func (e *Evaluation[T]) AverageScore() float64 {
	if len(e.results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range e.results {
		sum += e.score(r)
	}
	return sum / float64(len(e.results))
}

// Results returns a copy in chronological order.
func (e *Evaluation[T]) Results() []T {
	out := make([]T, len(e.results))
	copy(out, e.results)
	return out
}

// Last returns up to n most recent results, oldest first.
func (e *Evaluation[T]) Last(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > len(e.results) {
		n = len(e.results)
	}
	out := make([]T, n)
	copy(out, e.results[len(e.results)-n:])
	return out
}

// Scores maps each result through the scorer, for trend display.
func (e *Evaluation[T]) Scores() []float64 {
	out := make([]float64, len(e.results))
	for i, r := range e.results {
		out[i] = e.score(r)
	}
	return out
}
