package exercise_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/grid"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/stage"
)

var _ = Describe("Saccades", func() {
	var (
		cfg    *config.Config
		r      *rig
		s      *exercise.Saccades
		mapper *grid.Mapper
	)

	at := func(c grid.Cell) geom.Vec2 {
		p, ok := mapper.Position(cfg.Saccades.GridSize, c)
		Expect(ok).To(BeTrue())
		return p
	}

	other := func(c grid.Cell) grid.Cell {
		if c.Col > 0 {
			return grid.Cell{Row: c.Row, Col: c.Col - 1}
		}
		return grid.Cell{Row: c.Row, Col: c.Col + 1}
	}

	BeforeEach(func() {
		cfg = testConfig()
		r = newRig(cfg)
		s = exercise.NewSaccades(r.deps())
		mapper = grid.NewMapper()

		s.Start()
		Expect(s.Stage()).To(Equal(stage.Challenge))
		r.tick(s, 0, none())
	})

	It("shows a target on the grid", func() {
		target, ok := s.Target()
		Expect(ok).To(BeTrue())
		Expect(target.Row).To(BeNumerically("<", cfg.Saccades.GridSize))
		Expect(target.Col).To(BeNumerically("<", cfg.Saccades.GridSize))
	})

	It("scores a click on the target when the presentation ends", func() {
		target, _ := s.Target()
		r.tick(s, 0, click(at(target)))
		Expect(s.Summary().RepsDone).To(BeZero())

		r.tick(s, cfg.Saccades.Presentation, none())
		Expect(s.Summary().Scores).To(Equal([]float64{1}))
		Expect(s.Stage()).To(Equal(stage.Challenge))
		_, shown := s.Target()
		Expect(shown).To(BeFalse())
	})

	It("keeps the first click that lands on the grid", func() {
		target, _ := s.Target()
		r.tick(s, 0, click(geom.Vec2{X: 0.999, Y: 0.999}))
		r.tick(s, 0, click(at(other(target))))
		r.tick(s, 0, click(at(target)))
		r.tick(s, cfg.Saccades.Presentation, none())

		Expect(s.Summary().Scores).To(Equal([]float64{0}))
	})

	It("scores no click as a miss", func() {
		r.tick(s, cfg.Saccades.Presentation, none())
		Expect(s.Summary().Scores).To(Equal([]float64{0}))
	})

	It("never shows the same cell twice in a row", func() {
		cfg.Saccades.GridSize = 2
		cfg.Saccades.Repetitions = 40
		s = exercise.NewSaccades(r.deps())
		s.Start()

		var prev grid.Cell
		for i := 0; i < 30; i++ {
			r.tick(s, 0, none())
			target, ok := s.Target()
			Expect(ok).To(BeTrue())
			if i > 0 {
				Expect(target).NotTo(Equal(prev))
			}
			prev = target
			r.tick(s, cfg.Saccades.Presentation, none())
		}
	})

	It("finishes after the configured repetitions", func() {
		for i := 0; i < cfg.Saccades.Repetitions; i++ {
			target, _ := s.Target()
			r.tick(s, 0, click(at(target)))
			r.tick(s, cfg.Saccades.Presentation, none())
			r.tick(s, 0, none())
		}
		Expect(s.Stage()).To(Equal(stage.Finished))
		Expect(s.Summary().AverageScore).To(Equal(1.0))
	})

	It("draws the grid and the target", func() {
		scene := render.NewScene(render.White)
		s.Draw(scene)

		n := cfg.Saccades.GridSize
		Expect(scene.Layers).To(HaveLen(1))
		Expect(scene.Layers[0].Circles).To(HaveLen(n*n + 2))
	})
})
