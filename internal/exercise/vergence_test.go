package exercise_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/anaglyph"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/feedback"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/stage"
)

var keyFor = map[anaglyph.Position]input.Key{
	anaglyph.Up:    input.KeyUp,
	anaglyph.Down:  input.KeyDown,
	anaglyph.Left:  input.KeyLeft,
	anaglyph.Right: input.KeyRight,
}

func wrongKey(p anaglyph.Position) input.Key {
	if p == anaglyph.Up {
		return input.KeyDown
	}
	return input.KeyUp
}

var _ = Describe("Vergence", func() {
	var (
		cfg *config.Config
		r   *rig
		v   *exercise.Vergence
	)

	BeforeEach(func() {
		cfg = testConfig()
		r = newRig(cfg)
		v = exercise.NewVergence(r.deps())
	})

	It("waits while configuration is missing", func() {
		r = newRig(nil)
		v = exercise.NewVergence(r.deps())

		v.Start()
		r.tick(v, 0, none())
		Expect(v.Stage()).To(Equal(stage.NotReady))

		scene := render.NewScene(render.White)
		v.Draw(scene)
		Expect(scene.Texts).NotTo(BeEmpty())
		Expect(scene.Layers).To(BeEmpty())

		r.store.Set(cfg)
		r.tick(v, 0, none())
		Expect(v.Stage()).To(Equal(stage.Response))
		_, shown := v.FocalPosition()
		Expect(shown).To(BeTrue())
	})

	It("starts on confirm", func() {
		r.tick(v, 0, none())
		Expect(v.Stage()).To(Equal(stage.None))

		r.tick(v, 0, key(input.KeySpace))
		Expect(v.Stage()).To(Equal(stage.Response))
	})

	Context("in a session", func() {
		BeforeEach(func() {
			v.Start()
			r.tick(v, 0, none())
		})

		It("scores the arrow pointing at the diamond as correct", func() {
			pos, ok := v.FocalPosition()
			Expect(ok).To(BeTrue())

			r.tick(v, 100*time.Millisecond, key(keyFor[pos]))
			Expect(v.Stage()).To(Equal(stage.Result))
			Expect(v.LastCorrect()).To(BeTrue())
			Expect(r.feedback.last()).To(Equal(feedback.Correct))
			Expect(v.Summary().Scores).To(Equal([]float64{1}))
		})

		It("scores any other arrow as wrong", func() {
			pos, _ := v.FocalPosition()

			r.tick(v, 100*time.Millisecond, key(wrongKey(pos)))
			Expect(v.LastCorrect()).To(BeFalse())
			Expect(r.feedback.last()).To(Equal(feedback.Incorrect))
		})

		It("scores a timeout as wrong", func() {
			r.tick(v, cfg.Vergence.ResponseTimeout-time.Millisecond, none())
			Expect(v.Stage()).To(Equal(stage.Response))

			r.tick(v, time.Millisecond, none())
			Expect(v.Stage()).To(Equal(stage.Result))
			Expect(v.Summary().Scores).To(Equal([]float64{0}))
		})

		It("ignores arrows while showing the result", func() {
			pos, _ := v.FocalPosition()
			r.tick(v, 0, key(keyFor[pos]))
			r.tick(v, 0, key(keyFor[pos]))
			Expect(v.Summary().RepsDone).To(Equal(1))
		})

		It("shows a fresh stimulus after the result delay", func() {
			pos, _ := v.FocalPosition()
			r.tick(v, 0, key(keyFor[pos]))

			r.tick(v, cfg.Vergence.ResultDelay, none())
			Expect(v.Stage()).To(Equal(stage.Response))
			_, shown := v.FocalPosition()
			Expect(shown).To(BeFalse())

			r.tick(v, 0, none())
			_, shown = v.FocalPosition()
			Expect(shown).To(BeTrue())
		})

		It("finishes after the configured repetitions", func() {
			for i := 0; i < cfg.Vergence.Repetitions; i++ {
				pos, ok := v.FocalPosition()
				Expect(ok).To(BeTrue())
				r.tick(v, 0, key(keyFor[pos]))
				r.tick(v, cfg.Vergence.ResultDelay, none())
				r.tick(v, 0, none())
			}

			Expect(v.Stage()).To(Equal(stage.Finished))
			sum := v.Summary()
			Expect(sum.AverageScore).To(Equal(1.0))
			Expect(sum.RepsRemaining).To(Equal(0))
			Expect(sum.RepsDone).To(Equal(cfg.Vergence.Repetitions))
		})

		It("finishes when time runs out", func() {
			r.tick(v, cfg.Vergence.Duration, none())
			Expect(v.Stage()).To(Equal(stage.Finished))
			Expect(v.Summary().RepsDone).To(BeZero())
			Expect(v.Summary().AverageScore).To(BeZero())
		})

		It("draws both eyes multiply blended", func() {
			scene := render.NewScene(render.White)
			v.Draw(scene)

			Expect(scene.Layers).To(HaveLen(2))
			for _, l := range scene.Layers {
				Expect(l.Blend).To(Equal(render.BlendMultiply))
				Expect(l.Rects).NotTo(BeEmpty())
			}
			Expect(scene.Layers[0].Rects[0].Color).To(Equal(anaglyph.DefaultLeftColor))
			Expect(scene.Layers[1].Rects[0].Color).To(Equal(anaglyph.DefaultRightColor))
			Expect(scene.Status).To(ContainSubstring("Vergence"))
		})

		It("drops the stimulus on reset", func() {
			v.Reset()
			Expect(v.Stage()).To(Equal(stage.None))
			_, shown := v.FocalPosition()
			Expect(shown).To(BeFalse())
			Expect(v.Summary().RepsDone).To(BeZero())

			r.tick(v, 0, key(input.KeyUp))
			Expect(v.Summary().RepsDone).To(BeZero())
		})
	})
})
