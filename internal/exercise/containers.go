package exercise

import (
	"strconv"

	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/grid"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/session"
	"github.com/san-kum/perhabs/internal/stage"
)

// ContainerSearch reveals a set of containers, hides them, and asks the
// user to pick them back out. The number of containers follows a Ladder.
type ContainerSearch struct {
	base
	cfg    config.ContainerSearchConfig
	eval   *session.Evaluation[Attempt]
	ladder *Ladder
	mapper *grid.Mapper
	timer  *clock.Timer
	result *clock.Timer

	active  bool
	targets map[grid.Cell]bool
	picked  map[grid.Cell]bool
}

func NewContainerSearch(d Deps) *ContainerSearch {
	c := &ContainerSearch{base: newBase(KindContainerSearch, d), mapper: grid.NewMapper()}
	c.timer = clock.NewTimer(c.deps.Clock)
	c.result = clock.NewTimer(c.deps.Clock)
	c.base.begin = c.begin
	return c
}

func (c *ContainerSearch) begin(cfg *config.Config) {
	c.cfg = cfg.ContainerSearch
	// A round can never hold more containers than the grid has cells.
	cells := c.cfg.GridSize * c.cfg.GridSize
	c.ladder = NewLadder(min(c.cfg.StartLevel, cells), min(c.cfg.MinLevel, cells), min(c.cfg.MaxLevel, cells))
	c.eval = session.New(c.deps.Clock, c.cfg.Duration, c.cfg.Repetitions, AttemptScore)
	c.base.eval = c.eval
	c.clearRound()
	c.eval.Start()
	c.stage.Transition(stage.Answer)
}

func (c *ContainerSearch) clearRound() {
	c.active = false
	c.targets = make(map[grid.Cell]bool)
	c.picked = make(map[grid.Cell]bool)
	c.timer.Reset()
	c.result.Reset()
}

func (c *ContainerSearch) Reset() {
	c.reset()
	c.eval = nil
	c.ladder = nil
	c.clearRound()
}

// Level is the current number of containers per round.
func (c *ContainerSearch) Level() int {
	if c.ladder == nil {
		return 0
	}
	return c.ladder.Level()
}

// Targets lists the containers of the current round.
func (c *ContainerSearch) Targets() []grid.Cell {
	out := make([]grid.Cell, 0, len(c.targets))
	for cell := range c.targets {
		out = append(out, cell)
	}
	return out
}

// Attempts returns every pick of the session in order.
func (c *ContainerSearch) Attempts() []Attempt {
	if c.eval == nil {
		return nil
	}
	return c.eval.Results()
}

func (c *ContainerSearch) Tick(in input.Frame) {
	if !c.settle(in) {
		return
	}

	switch c.stage.Current() {
	case stage.Answer:
		if !c.active {
			c.reveal()
			return
		}
		if c.timer.IsFinished() {
			c.timer.Set(c.cfg.ResponseTimeout)
			c.stage.Transition(stage.Response)
		}

	case stage.Response:
		if p, ok := in.Clicked(); ok {
			c.pick(p)
			return
		}
		if c.timer.IsFinished() {
			a := c.ladder.Timeout()
			c.eval.AddResult(a)
			c.feedback(false)
			c.endRound()
		}

	case stage.Result:
		if c.result.IsFinished() {
			c.clearRound()
			c.stage.Transition(stage.Answer)
		}
	}
}

func (c *ContainerSearch) reveal() {
	for _, cell := range c.mapper.RandomCells(c.cfg.GridSize, c.ladder.Level(), c.rng) {
		c.targets[cell] = true
	}
	c.active = true
	c.timer.Set(c.cfg.Reveal)
	c.log.Debug("containers revealed", "level", c.ladder.Level())
}

func (c *ContainerSearch) pick(p geom.Vec2) {
	tol := c.cfg.Tolerance * c.mapper.CellSize(c.cfg.GridSize)
	cell, ok := c.mapper.Cell(c.cfg.GridSize, p, tol)
	if !ok || c.picked[cell] {
		return
	}
	c.picked[cell] = true

	before := c.ladder.Level()
	a, over := c.ladder.Record(c.targets[cell])
	c.eval.AddResult(a)
	c.feedback(a.Correct)
	if !over {
		return
	}
	if after := c.ladder.Level(); after != before {
		c.log.Info("level changed", "from", before, "to", after)
	}
	c.endRound()
}

func (c *ContainerSearch) endRound() {
	c.timer.Reset()
	c.result.Set(c.cfg.ResultDelay)
	c.stage.Transition(stage.Result)
}

func (c *ContainerSearch) Draw(s *render.Scene) {
	if !c.drawChrome(s) {
		return
	}

	size := c.cfg.GridSize
	side := c.mapper.CellSize(size) * 0.8
	layer := s.Layer(render.BlendOver)
	cur := c.stage.Current()
	for i, row := range c.mapper.Positions(size) {
		for j, p := range row {
			cell := grid.Cell{Row: i, Col: j}
			box := geom.RectCentered(p, side, side)
			switch {
			case c.picked[cell] && c.targets[cell]:
				layer.Rect(box, render.Green, true)
			case c.picked[cell]:
				layer.Rect(box, render.Red, true)
			case c.targets[cell] && (cur == stage.Answer || cur == stage.Result):
				layer.Rect(box, render.Blue, true)
			}
			layer.Rect(box, render.Gray, false)
		}
	}
	s.Text(geom.Vec2{X: 0.5, Y: 0.06}, 0.035, render.Black, levelText(c.Level()))
}

func levelText(level int) string {
	if level == 1 {
		return "1 container"
	}
	return strconv.Itoa(level) + " containers"
}
