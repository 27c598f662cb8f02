package exercise_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/exercise"
)

var _ = Describe("Ladder", func() {
	It("steps down exactly one level after two failures in a row", func() {
		l := exercise.NewLadder(3, 1, 9)

		_, over := l.Record(false)
		Expect(over).To(BeFalse())
		a, over := l.Record(false)
		Expect(over).To(BeTrue())
		Expect(a).To(Equal(exercise.Attempt{Level: 3, Correct: false}))
		Expect(l.Level()).To(Equal(2))
	})

	It("steps up exactly one level after a full round of successes", func() {
		l := exercise.NewLadder(3, 1, 9)

		for i := 0; i < 2; i++ {
			_, over := l.Record(true)
			Expect(over).To(BeFalse())
		}
		_, over := l.Record(true)
		Expect(over).To(BeTrue())
		Expect(l.Level()).To(Equal(4))
	})

	It("only looks at the last two picks for failures", func() {
		l := exercise.NewLadder(3, 1, 9)

		l.Record(false)
		l.Record(true)
		_, over := l.Record(false)
		Expect(over).To(BeFalse())
		Expect(l.Level()).To(Equal(3))
	})

	It("starts each round fresh", func() {
		l := exercise.NewLadder(2, 1, 9)
		l.Record(false)
		l.Record(false)
		Expect(l.Level()).To(Equal(1))

		_, over := l.Record(false)
		Expect(over).To(BeFalse())
	})

	It("stays within bounds", func() {
		l := exercise.NewLadder(1, 1, 2)
		l.Record(false)
		l.Record(false)
		Expect(l.Level()).To(Equal(1))

		l.Record(true)
		Expect(l.Level()).To(Equal(2))
		l.Record(true)
		l.Record(true)
		Expect(l.Level()).To(Equal(2))

		Expect(exercise.NewLadder(12, 1, 9).Level()).To(Equal(9))
	})

	Describe("Timeout", func() {
		It("ends the round without a level change on its own", func() {
			l := exercise.NewLadder(3, 1, 9)
			Expect(l.Timeout()).To(Equal(exercise.Attempt{Level: 3}))
			Expect(l.Level()).To(Equal(3))

			_, over := l.Record(false)
			Expect(over).To(BeFalse())
		})

		It("completes a pair of failures", func() {
			l := exercise.NewLadder(3, 1, 9)
			l.Record(false)
			l.Timeout()
			Expect(l.Level()).To(Equal(2))
		})
	})

	It("scores attempts by correctness", func() {
		Expect(exercise.AttemptScore(exercise.Attempt{Level: 4, Correct: true})).To(Equal(1.0))
		Expect(exercise.AttemptScore(exercise.Attempt{Level: 4})).To(Equal(0.0))
	})
})
