// Package exercise implements the rehabilitation exercises on top of the
// shared session engine.
//
// Every exercise follows the same loop. The host calls Tick once per frame
// with that frame's input. Tick first checks readiness and session
// completion through the stage machine, then runs the exercise's own
// stage-local rules: present a stimulus, collect the response, show the
// result, repeat. Draw describes the current frame without changing state.
//
// Exercises are single threaded and own their timers, evaluation and
// generators exclusively. Collaborators (configuration, speech, remote
// content, audio) are injected through [Deps].
package exercise

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/perhabs/internal/asset"
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/feedback"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/speech"
	"github.com/san-kum/perhabs/internal/stage"
)

type Exercise interface {
	Name() string
	Kind() Kind
	Stage() stage.Stage
	// Start begins a session, or queues it until configuration is ready.
	Start()
	Tick(in input.Frame)
	// Reset drops the session and any stimulus in flight.
	Reset()
	Draw(s *render.Scene)
	Summary() Summary
}

// Deps are the collaborators an exercise needs. Zero values fall back to
// the wall clock, discarded logs and silent speech and audio. A nil Fetcher
// disables remote content.
type Deps struct {
	Config   *config.Store
	Clock    clock.Clock
	Seed     int64
	Logger   *slog.Logger
	Speech   speech.Synthesizer
	Fetcher  asset.Fetcher
	Feedback feedback.Player
}

func (d Deps) withDefaults() Deps {
	if d.Config == nil {
		d.Config = config.NewStaticStore(config.DefaultConfig())
	}
	if d.Clock == nil {
		d.Clock = clock.System
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	if d.Speech == nil {
		d.Speech = speech.Nop{}
	}
	if d.Feedback == nil {
		d.Feedback = feedback.Nop{}
	}
	return d
}

// Summary is a snapshot of the session for status lines, the finished
// screen and report export.
type Summary struct {
	Name          string        `json:"name"`
	Kind          Kind          `json:"kind"`
	Stage         stage.Stage   `json:"-"`
	RepsDone      int           `json:"reps_done"`
	RepsRemaining int           `json:"reps_remaining"`
	TimeRemaining time.Duration `json:"time_remaining"`
	TimeTaken     time.Duration `json:"time_taken"`
	AverageScore  float64       `json:"average_score"`
	Scores        []float64     `json:"scores"`
}

// scorer is what the shared code needs from an Evaluation of any result
// type.
type scorer interface {
	IsFinished() bool
	RepsDone() int
	RepsRemaining() int
	TimeRemaining() time.Duration
	TimeTaken() time.Duration
	AverageScore() float64
	Scores() []float64
}

type base struct {
	kind    Kind
	deps    Deps
	log     *slog.Logger
	rng     *rand.Rand
	stage   *stage.Machine
	eval    scorer
	pending bool
	begin   func(cfg *config.Config)
}

func newBase(k Kind, d Deps) base {
	d = d.withDefaults()
	log := d.Logger.With("exercise", string(k))
	return base{
		kind:  k,
		deps:  d,
		log:   log,
		rng:   rand.New(rand.NewSource(d.Seed)),
		stage: stage.NewMachine(log),
	}
}

func (b *base) Name() string       { return b.kind.Title() }
func (b *base) Kind() Kind         { return b.kind }
func (b *base) Stage() stage.Stage { return b.stage.Current() }

func (b *base) Start() {
	b.pending = true
	cfg, ready := b.deps.Config.Current()
	b.tryBegin(cfg, ready)
}

func (b *base) tryBegin(cfg *config.Config, ready bool) {
	if !b.pending || !ready || b.stage.Current().Active() {
		return
	}
	b.pending = false
	b.stage.Reset()
	b.begin(cfg)
	b.log.Info("session started")
}

func (b *base) reset() {
	b.pending = false
	b.eval = nil
	b.stage.Reset()
}

func (b *base) finished() bool {
	if b.eval == nil || !b.eval.IsFinished() {
		return false
	}
	if b.stage.Current() != stage.Finished {
		b.log.Info("session finished",
			"reps", b.eval.RepsDone(),
			"score", b.eval.AverageScore(),
			"taken", b.eval.TimeTaken())
	}
	return true
}

// settle runs the part of every tick that is the same for all exercises:
// confirm to start, readiness, and session completion. It reports whether
// stage-local progression should run.
func (b *base) settle(in input.Frame) bool {
	cfg, ready := b.deps.Config.Current()
	if in.Confirm() && !b.stage.Current().Active() {
		b.pending = true
	}
	if b.stage.Current() == stage.NotReady && ready {
		b.stage.Transition(stage.None)
	}
	b.tryBegin(cfg, ready)
	return b.stage.Settle(ready, b.finished)
}

func (b *base) Summary() Summary {
	s := Summary{Name: b.Name(), Kind: b.kind, Stage: b.stage.Current()}
	if b.eval == nil {
		return s
	}
	s.RepsDone = b.eval.RepsDone()
	s.RepsRemaining = b.eval.RepsRemaining()
	s.TimeRemaining = b.eval.TimeRemaining()
	s.TimeTaken = b.eval.TimeTaken()
	s.AverageScore = b.eval.AverageScore()
	s.Scores = b.eval.Scores()
	return s
}

func (b *base) feedback(correct bool) {
	if correct {
		b.deps.Feedback.Play(feedback.Correct)
	} else {
		b.deps.Feedback.Play(feedback.Incorrect)
	}
}

var (
	textTitle = geom.Vec2{X: 0.5, Y: 0.45}
	textSub   = geom.Vec2{X: 0.5, Y: 0.55}
	textFoot  = geom.Vec2{X: 0.5, Y: 0.96}
)

// drawChrome fills the scene for the stages that have no stimulus and
// writes the status line. It reports whether the exercise still needs to
// draw its own content.
func (b *base) drawChrome(s *render.Scene) bool {
	sum := b.Summary()
	switch sum.Stage {
	case stage.NotReady:
		s.Text(textTitle, 0.05, render.Gray, "Loading configuration...")
		return false
	case stage.None:
		s.Text(textTitle, 0.06, render.Black, b.Name())
		s.Text(textSub, 0.035, render.Gray, b.kind.Description())
		s.Text(textFoot, 0.03, render.Gray, "space to start, esc for menu")
		return false
	case stage.Finished:
		s.Text(textTitle, 0.06, render.Black, "Finished")
		s.Text(textSub, 0.04, render.Black, fmt.Sprintf("score %.0f%% over %d reps in %s",
			sum.AverageScore*100, sum.RepsDone, sum.TimeTaken.Round(time.Second)))
		s.Text(textFoot, 0.03, render.Gray, "space to go again, esc for menu")
		return false
	}
	s.Status = status(sum)
	return true
}

func status(s Summary) string {
	out := fmt.Sprintf("%s | %s | %d left", s.Name, s.Stage, s.RepsRemaining)
	if s.TimeRemaining > 0 {
		out += fmt.Sprintf(" | %s", s.TimeRemaining.Round(time.Second))
	}
	return out + fmt.Sprintf(" | %.0f%%", s.AverageScore*100)
}
