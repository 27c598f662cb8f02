package exercise

import (
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/grid"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/session"
	"github.com/san-kum/perhabs/internal/stage"
)

// Saccades flashes a target at a random grid cell. The user clicks it
// before the presentation time runs out.
type Saccades struct {
	base
	cfg    config.SaccadesConfig
	eval   *session.Evaluation[bool]
	mapper *grid.Mapper
	timer  *clock.Timer

	active   bool
	target   grid.Cell
	last     grid.Cell
	hasLast  bool
	answered bool
	hit      bool
}

func NewSaccades(d Deps) *Saccades {
	s := &Saccades{base: newBase(KindSaccades, d), mapper: grid.NewMapper()}
	s.timer = clock.NewTimer(s.deps.Clock)
	s.base.begin = s.begin
	return s
}

func (s *Saccades) begin(cfg *config.Config) {
	s.cfg = cfg.Saccades
	s.eval = session.NewBool(s.deps.Clock, s.cfg.Duration, s.cfg.Repetitions)
	s.base.eval = s.eval
	s.clearRound()
	s.hasLast = false
	s.eval.Start()
	s.stage.Transition(stage.Challenge)
}

func (s *Saccades) clearRound() {
	s.active = false
	s.answered = false
	s.hit = false
	s.timer.Reset()
}

func (s *Saccades) Reset() {
	s.reset()
	s.eval = nil
	s.hasLast = false
	s.clearRound()
}

// Target is the cell currently shown.
func (s *Saccades) Target() (grid.Cell, bool) {
	return s.target, s.active
}

func (s *Saccades) Tick(in input.Frame) {
	if !s.settle(in) || s.stage.Current() != stage.Challenge {
		return
	}

	if !s.active {
		s.present()
		return
	}

	if p, ok := in.Clicked(); ok && !s.answered {
		tol := s.cfg.Tolerance * s.mapper.CellSize(s.cfg.GridSize)
		if c, ok := s.mapper.Cell(s.cfg.GridSize, p, tol); ok {
			s.answered = true
			s.hit = c == s.target
		}
	}

	if s.timer.IsFinished() {
		s.eval.AddResult(s.hit)
		s.feedback(s.hit)
		s.log.Debug("saccade scored", "target", s.target, "answered", s.answered, "hit", s.hit)
		s.last, s.hasLast = s.target, true
		s.clearRound()
		s.stage.Transition(stage.Challenge)
	}
}

// present picks a cell other than the previous one.
func (s *Saccades) present() {
	n := s.cfg.GridSize
	for {
		idx := s.rng.Intn(n * n)
		s.target = grid.Cell{Row: idx / n, Col: idx % n}
		if !s.hasLast || s.target != s.last || n*n == 1 {
			break
		}
	}
	s.active = true
	s.timer.Set(s.cfg.Presentation)
}

func (s *Saccades) Draw(sc *render.Scene) {
	if !s.drawChrome(sc) {
		return
	}

	size := s.cfg.GridSize
	r := s.mapper.CellSize(size) * 0.3
	layer := sc.Layer(render.BlendOver)
	for _, row := range s.mapper.Positions(size) {
		for _, p := range row {
			layer.Circle(p, r*0.15, render.Gray, true)
		}
	}
	if !s.active {
		return
	}
	p, _ := s.mapper.Position(size, s.target)
	c := render.Blue
	if s.answered {
		c = render.Red
		if s.hit {
			c = render.Green
		}
	}
	layer.Circle(p, r, c, true)
	layer.Circle(p, r*1.3, c, false)
}
