package stage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/stage"
)

var _ = Describe("Stage", func() {
	DescribeTable("transition table",
		func(from, to stage.Stage, ok bool) {
			Expect(stage.CanTransition(from, to)).To(Equal(ok))
		},
		Entry("start into challenge", stage.None, stage.Challenge, true),
		Entry("start into response", stage.None, stage.Response, true),
		Entry("challenge times out into response", stage.Challenge, stage.Response, true),
		Entry("challenge loops", stage.Challenge, stage.Challenge, true),
		Entry("answer hides into response", stage.Answer, stage.Response, true),
		Entry("response into result", stage.Response, stage.Result, true),
		Entry("result into next challenge", stage.Result, stage.Challenge, true),
		Entry("result into next response", stage.Result, stage.Response, true),
		Entry("any active into finished", stage.Result, stage.Finished, true),
		Entry("idle cannot finish", stage.None, stage.Finished, false),
		Entry("finished is terminal", stage.Finished, stage.Challenge, false),
		Entry("result cannot skip to none", stage.Result, stage.None, false),
		Entry("response cannot go back to answer", stage.Response, stage.Answer, false),
	)

	It("names every stage", func() {
		for _, s := range []stage.Stage{stage.None, stage.NotReady, stage.Challenge, stage.Answer, stage.Response, stage.Result, stage.Finished} {
			Expect(s.String()).NotTo(Equal("unknown"))
		}
		Expect(stage.Stage(42).String()).To(Equal("unknown"))
	})

	Describe("Machine", func() {
		var m *stage.Machine

		BeforeEach(func() {
			m = stage.NewMachine(nil)
		})

		It("ignores illegal transitions", func() {
			Expect(m.Transition(stage.Result)).To(BeFalse())
			Expect(m.Current()).To(Equal(stage.None))
		})

		It("stays finished until reset", func() {
			Expect(m.Transition(stage.Response)).To(BeTrue())
			Expect(m.Finish()).To(BeTrue())
			Expect(m.Transition(stage.Response)).To(BeFalse())
			Expect(m.Current()).To(Equal(stage.Finished))

			m.Reset()
			Expect(m.Current()).To(Equal(stage.None))
		})

		Context("Settle", func() {
			It("parks in NotReady while configuration is missing", func() {
				Expect(m.Settle(false, nil)).To(BeFalse())
				Expect(m.Current()).To(Equal(stage.NotReady))

				Expect(m.Settle(true, nil)).To(BeFalse())
				Expect(m.Current()).To(Equal(stage.None))
			})

			It("does not consult the evaluation while idle", func() {
				calls := 0
				Expect(m.Settle(true, func() bool { calls++; return true })).To(BeFalse())
				Expect(calls).To(BeZero())
				Expect(m.Current()).To(Equal(stage.None))
			})

			It("finishes before any stage-local progression", func() {
				m.Transition(stage.Challenge)
				Expect(m.Settle(true, func() bool { return true })).To(BeFalse())
				Expect(m.Current()).To(Equal(stage.Finished))
			})

			It("lets an unfinished session progress", func() {
				m.Transition(stage.Response)
				Expect(m.Settle(true, func() bool { return false })).To(BeTrue())
				Expect(m.Current()).To(Equal(stage.Response))
			})
		})
	})
})
