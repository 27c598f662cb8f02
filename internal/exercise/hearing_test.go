package exercise_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/asset"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/content"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/spatial"
	"github.com/san-kum/perhabs/internal/stage"
)

var _ = Describe("SpatialHearing", func() {
	var (
		cfg *config.Config
		r   *rig
		h   *exercise.SpatialHearing
	)

	// listen plays the cue and moves on to the response.
	listen := func() spatial.SoundSource {
		r.tick(h, 0, none())
		src, ok := h.Target()
		Expect(ok).To(BeTrue())
		r.tick(h, cfg.SpatialHearing.Cue, none())
		Expect(h.Stage()).To(Equal(stage.Response))
		return src
	}

	BeforeEach(func() {
		cfg = testConfig()
		r = newRig(cfg)
		h = exercise.NewSpatialHearing(r.deps())
	})

	Context("with the built in words", func() {
		BeforeEach(func() {
			h.Start()
			Expect(h.Stage()).To(Equal(stage.Challenge))
		})

		It("speaks a word and pans a tone toward the speaker", func() {
			r.tick(h, 0, none())
			src, _ := h.Target()

			Expect(r.speech.words).To(Equal([]string{h.Word()}))
			Expect(content.DefaultWords).To(ContainElement(h.Word()))

			cue := r.feedback.last()
			Expect(cue.Duration).To(Equal(cfg.SpatialHearing.Cue))
			switch {
			case src.Pos.X < 0.5:
				Expect(cue.Pan).To(BeNumerically("<", 0))
			case src.Pos.X > 0.5:
				Expect(cue.Pan).To(BeNumerically(">", 0))
			}
			Expect(r.fetcher.urls).To(BeEmpty())
		})

		It("scores a click on the speaker as correct", func() {
			src := listen()
			Expect(src.Rect).NotTo(BeNil())

			r.tick(h, 0, click(src.Rect.Center()))
			Expect(h.Stage()).To(Equal(stage.Result))
			Expect(h.LastCorrect()).To(BeTrue())
		})

		It("scores a click on another speaker as wrong", func() {
			src := listen()
			var other geom.Vec2
			for _, s := range spatialSources(cfg) {
				if s.Name != src.Name {
					other = s.Rect.Center()
					break
				}
			}

			r.tick(h, 0, click(other))
			Expect(h.Stage()).To(Equal(stage.Result))
			Expect(h.LastCorrect()).To(BeFalse())
		})

		It("ignores clicks away from every speaker", func() {
			listen()
			r.tick(h, 0, click(geom.Vec2{X: 0.5, Y: 0.5}))
			Expect(h.Stage()).To(Equal(stage.Response))
		})

		It("scores a timeout as wrong and moves on", func() {
			listen()
			r.tick(h, cfg.SpatialHearing.ResponseTimeout, none())
			Expect(h.Summary().Scores).To(Equal([]float64{0}))

			r.tick(h, cfg.SpatialHearing.ResultDelay, none())
			Expect(h.Stage()).To(Equal(stage.Challenge))
		})

		It("draws the room and every speaker", func() {
			listen()
			scene := render.NewScene(render.White)
			h.Draw(scene)

			Expect(scene.Layers).To(HaveLen(2))
			Expect(scene.Layers[0].Lines).To(HaveLen(8))
			Expect(scene.Layers[1].Rects).To(HaveLen(cfg.SpatialHearing.Sources))
		})
	})

	Context("with a remote word list", func() {
		BeforeEach(func() {
			cfg.SpatialHearing.WordsURL = "http://words.example/list.txt"
			h.Start()
		})

		It("uses the fetched words once they arrive", func() {
			Expect(r.fetcher.urls).To(Equal([]string{cfg.SpatialHearing.WordsURL}))
			Expect(h.Words()).To(Equal(content.DefaultWords))

			r.fetcher.handles[0].Complete([]byte("alpha\nbeta\n"), nil)
			r.tick(h, 0, none())
			Expect(h.Words()).To(Equal([]string{"alpha", "beta"}))
			Expect([]string{"alpha", "beta"}).To(ContainElement(h.Word()))
		})

		It("keeps the defaults when the fetch fails", func() {
			r.fetcher.handles[0].Complete(nil, errors.New("offline"))
			r.tick(h, 0, none())
			Expect(h.Words()).To(Equal(content.DefaultWords))
			Expect(content.DefaultWords).To(ContainElement(h.Word()))
		})

		It("abandons the fetch on reset", func() {
			h.Reset()
			status, _, err := r.fetcher.handles[0].Poll()
			Expect(status).To(Equal(asset.Failed))
			Expect(err).To(MatchError(asset.ErrCancelled))

			r.fetcher.handles[0].Complete([]byte("late\n"), nil)
			r.tick(h, 0, none())
			Expect(h.Words()).To(Equal(content.DefaultWords))
		})
	})
})

// spatialSources lays out the room the way the exercise does.
func spatialSources(cfg *config.Config) []spatial.SoundSource {
	sc := cfg.SpatialHearing
	src := spatial.Room(sc.Sources, sc.Depth)
	p := spatial.Projector{VanishingPoint: geom.Vec2{X: sc.VanishingX, Y: sc.VanishingY}}
	p.Layout(src, sc.SourceSize)
	return src
}
