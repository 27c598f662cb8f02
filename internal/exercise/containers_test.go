package exercise_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/grid"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/stage"
)

var _ = Describe("ContainerSearch", func() {
	var (
		cfg    *config.Config
		r      *rig
		c      *exercise.ContainerSearch
		mapper *grid.Mapper
	)

	at := func(cell grid.Cell) geom.Vec2 {
		p, ok := mapper.Position(cfg.ContainerSearch.GridSize, cell)
		Expect(ok).To(BeTrue())
		return p
	}

	decoys := func() []grid.Cell {
		targets := make(map[grid.Cell]bool)
		for _, t := range c.Targets() {
			targets[t] = true
		}
		var out []grid.Cell
		n := cfg.ContainerSearch.GridSize
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if cell := (grid.Cell{Row: i, Col: j}); !targets[cell] {
					out = append(out, cell)
				}
			}
		}
		return out
	}

	// reveal runs the Answer stage through to the Response stage.
	reveal := func() {
		r.tick(c, 0, none())
		Expect(c.Stage()).To(Equal(stage.Answer))
		Expect(c.Targets()).To(HaveLen(c.Level()))
		r.tick(c, cfg.ContainerSearch.Reveal, none())
		Expect(c.Stage()).To(Equal(stage.Response))
	}

	BeforeEach(func() {
		cfg = testConfig()
		r = newRig(cfg)
		c = exercise.NewContainerSearch(r.deps())
		mapper = grid.NewMapper()

		c.Start()
		Expect(c.Level()).To(Equal(cfg.ContainerSearch.StartLevel))
	})

	It("ignores clicks while the containers are shown", func() {
		r.tick(c, 0, none())
		r.tick(c, 0, click(at(c.Targets()[0])))
		Expect(c.Attempts()).To(BeEmpty())
		Expect(c.Stage()).To(Equal(stage.Answer))
	})

	It("levels up by one after picking every container", func() {
		reveal()
		targets := c.Targets()
		for _, t := range targets {
			r.tick(c, 0, click(at(t)))
		}

		Expect(c.Stage()).To(Equal(stage.Result))
		Expect(c.Level()).To(Equal(cfg.ContainerSearch.StartLevel + 1))
		Expect(c.Attempts()).To(HaveLen(len(targets)))
	})

	It("levels down by one after two wrong picks", func() {
		reveal()
		wrong := decoys()
		r.tick(c, 0, click(at(wrong[0])))
		r.tick(c, 0, click(at(wrong[1])))

		Expect(c.Stage()).To(Equal(stage.Result))
		Expect(c.Level()).To(Equal(cfg.ContainerSearch.StartLevel - 1))
		Expect(c.Attempts()).To(Equal([]exercise.Attempt{
			{Level: 2, Correct: false},
			{Level: 2, Correct: false},
		}))
	})

	It("ignores a container picked twice", func() {
		reveal()
		wrong := decoys()
		r.tick(c, 0, click(at(wrong[0])))
		r.tick(c, 0, click(at(wrong[0])))

		Expect(c.Attempts()).To(HaveLen(1))
		Expect(c.Stage()).To(Equal(stage.Response))
	})

	It("records a failed attempt on timeout", func() {
		reveal()
		r.tick(c, cfg.ContainerSearch.ResponseTimeout, none())

		Expect(c.Stage()).To(Equal(stage.Result))
		Expect(c.Attempts()).To(Equal([]exercise.Attempt{{Level: 2, Correct: false}}))
		Expect(c.Level()).To(Equal(2))
	})

	It("reveals a new round at the new level after the result", func() {
		reveal()
		for _, t := range c.Targets() {
			r.tick(c, 0, click(at(t)))
		}
		r.tick(c, cfg.ContainerSearch.ResultDelay, none())
		Expect(c.Stage()).To(Equal(stage.Answer))

		reveal()
		Expect(c.Targets()).To(HaveLen(3))
	})

	It("shows the containers only while revealed", func() {
		r.tick(c, 0, none())
		scene := render.NewScene(render.White)
		c.Draw(scene)
		Expect(filled(scene)).To(Equal(c.Level()))

		r.tick(c, cfg.ContainerSearch.Reveal, none())
		scene.Reset(render.White)
		c.Draw(scene)
		Expect(filled(scene)).To(BeZero())
	})

	It("finishes when time runs out mid round", func() {
		reveal()
		r.tick(c, cfg.ContainerSearch.Duration+time.Second, none())
		Expect(c.Stage()).To(Equal(stage.Finished))
	})
})

var _ = Describe("ContainerSearch on a grid smaller than its levels", func() {
	It("caps the level at the number of cells so a round can be completed", func() {
		cfg := testConfig()
		cfg.ContainerSearch.GridSize = 2
		cfg.ContainerSearch.MinLevel = 5
		cfg.ContainerSearch.StartLevel = 5
		cfg.ContainerSearch.MaxLevel = 9
		r := newRig(cfg)
		c := exercise.NewContainerSearch(r.deps())
		mapper := grid.NewMapper()

		c.Start()
		Expect(c.Level()).To(Equal(4))

		r.tick(c, 0, none())
		Expect(c.Targets()).To(HaveLen(4))
		r.tick(c, cfg.ContainerSearch.Reveal, none())
		Expect(c.Stage()).To(Equal(stage.Response))

		for _, t := range c.Targets() {
			p, ok := mapper.Position(2, t)
			Expect(ok).To(BeTrue())
			r.tick(c, 0, click(p))
		}

		Expect(c.Stage()).To(Equal(stage.Result))
		attempts := c.Attempts()
		Expect(attempts).To(HaveLen(4))
		for _, a := range attempts {
			Expect(a.Correct).To(BeTrue())
		}
	})
})

func filled(s *render.Scene) int {
	n := 0
	for _, l := range s.Layers {
		for _, r := range l.Rects {
			if r.Filled {
				n++
			}
		}
	}
	return n
}
