package exercise

import (
	"github.com/san-kum/perhabs/internal/anaglyph"
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/session"
	"github.com/san-kum/perhabs/internal/stage"
)

// stimulusArea is where anaglyph patterns are drawn, in scene coordinates.
var stimulusArea = geom.Rect{Min: geom.Vec2{X: 0.1, Y: 0.1}, Size: geom.Vec2{X: 0.8, Y: 0.8}}

var arrowFor = map[anaglyph.Position]input.Key{
	anaglyph.Up:    input.KeyUp,
	anaglyph.Down:  input.KeyDown,
	anaglyph.Left:  input.KeyLeft,
	anaglyph.Right: input.KeyRight,
}

// Vergence shows a random dot anaglyph with a diamond floating at a
// different depth. The user answers with the arrow key pointing at it.
type Vergence struct {
	base
	cfg    config.VergenceConfig
	eval   *session.Evaluation[bool]
	gen    *anaglyph.Generator
	timer  *clock.Timer
	result *clock.Timer

	active      bool
	lastCorrect bool
}

func NewVergence(d Deps) *Vergence {
	v := &Vergence{base: newBase(KindVergence, d)}
	v.timer = clock.NewTimer(v.deps.Clock)
	v.result = clock.NewTimer(v.deps.Clock)
	v.base.begin = v.begin
	return v
}

func (v *Vergence) begin(cfg *config.Config) {
	v.cfg = cfg.Vergence
	v.gen = anaglyph.New(v.cfg.Depth, v.rng, v.log)
	v.gen.SetColors(cfg.EyeColors())
	v.eval = session.NewBool(v.deps.Clock, v.cfg.Duration, v.cfg.Repetitions)
	v.base.eval = v.eval
	v.clearRound()
	v.eval.Start()
	v.stage.Transition(stage.Response)
}

func (v *Vergence) clearRound() {
	v.active = false
	v.timer.Reset()
	v.result.Reset()
}

func (v *Vergence) Reset() {
	v.reset()
	v.eval = nil
	v.gen = nil
	v.clearRound()
}

// FocalPosition is where the floating diamond sits, while one is shown.
func (v *Vergence) FocalPosition() (anaglyph.Position, bool) {
	if !v.active {
		return 0, false
	}
	return v.gen.FocalPosition, true
}

// LastCorrect reports how the most recent response was scored.
func (v *Vergence) LastCorrect() bool { return v.lastCorrect }

func (v *Vergence) Tick(in input.Frame) {
	if !v.settle(in) {
		return
	}

	switch v.stage.Current() {
	case stage.Response:
		if !v.active {
			v.gen.Next()
			v.timer.Set(v.cfg.ResponseTimeout)
			v.active = true
			v.log.Debug("stimulus", "position", v.gen.FocalPosition, "disparity", v.gen.Disparity())
			return
		}
		if key, ok := in.Arrow(); ok {
			v.record(key == arrowFor[v.gen.FocalPosition])
			return
		}
		if v.timer.IsFinished() {
			v.record(false)
		}

	case stage.Result:
		if v.result.IsFinished() {
			v.active = false
			v.stage.Transition(stage.Response)
		}
	}
}

func (v *Vergence) record(correct bool) {
	v.eval.AddResult(correct)
	v.lastCorrect = correct
	v.feedback(correct)
	v.timer.Reset()
	v.result.Set(v.cfg.ResultDelay)
	v.stage.Transition(stage.Result)
}

func (v *Vergence) Draw(s *render.Scene) {
	if !v.drawChrome(s) {
		return
	}

	switch v.stage.Current() {
	case stage.Response:
		if v.active {
			v.gen.Draw(s, stimulusArea)
		}
	case stage.Result:
		drawVerdict(s, v.lastCorrect)
	}
}

func drawVerdict(s *render.Scene, correct bool) {
	if correct {
		s.Text(textTitle, 0.08, render.Green, "Correct")
	} else {
		s.Text(textTitle, 0.08, render.Red, "Wrong")
	}
}
