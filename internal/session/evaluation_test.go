package session_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/session"
)

var _ = Describe("Evaluation", func() {
	var clk *clock.Manual

	BeforeEach(func() {
		clk = clock.NewManual(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	})

	Context("a vergence session of 60 reps in 60s", func() {
		It("finishes on repetitions with a perfect score", func() {
			ev := session.NewBool(clk, 60*time.Second, 60)
			ev.Start()
			for i := 0; i < 60; i++ {
				ev.AddResult(true)
			}

			Expect(ev.IsFinished()).To(BeTrue())
			Expect(ev.AverageScore()).To(Equal(1.0))
			Expect(ev.RepsRemaining()).To(Equal(0))
		})
	})

	It("finishes on time alone with an effectively unbounded rep budget", func() {
		var ev *session.Evaluation[bool]
		Expect(func() { ev = session.NewBool(clk, time.Second, math.MaxInt) }).NotTo(Panic())

		ev.Start()
		ev.AddResult(true)
		Expect(ev.IsFinished()).To(BeFalse())

		clk.Advance(time.Second)
		Expect(ev.IsFinished()).To(BeTrue())
		Expect(ev.RepsDone()).To(Equal(1))
		Expect(ev.AverageScore()).To(Equal(1.0))
	})

	It("stays finished after more results are added", func() {
		ev := session.NewBool(clk, time.Minute, 3)
		ev.Start()
		ev.AddResult(true)
		ev.AddResult(false)
		Expect(ev.IsFinished()).To(BeFalse())

		ev.AddResult(true)
		Expect(ev.IsFinished()).To(BeTrue())
		ev.AddResult(true)
		Expect(ev.IsFinished()).To(BeTrue())
		Expect(ev.RepsRemaining()).To(Equal(0))
	})

	It("finishes on time alone when the rep budget is huge", func() {
		ev := session.NewBool(clk, 2*time.Second, 1_000_000)
		ev.Start()
		ev.AddResult(true)
		clk.Advance(2 * time.Second)

		Expect(ev.IsFinished()).To(BeTrue())
		Expect(ev.RepsDone()).To(BeNumerically("<", 1_000_000))
		Expect(ev.TimeRemaining()).To(BeZero())
	})

	It("stamps the finish time only once", func() {
		ev := session.NewBool(clk, time.Second, 100)
		ev.Start()
		clk.Advance(1500 * time.Millisecond)
		Expect(ev.IsFinished()).To(BeTrue())
		taken := ev.TimeTaken()

		clk.Advance(10 * time.Second)
		Expect(ev.IsFinished()).To(BeTrue())
		Expect(ev.TimeTaken()).To(Equal(taken))
		Expect(taken).To(Equal(1500 * time.Millisecond))
	})

	It("relies on repetitions when duration is zero", func() {
		ev := session.NewBool(clk, 0, 2)
		ev.Start()
		clk.Advance(time.Hour)
		Expect(ev.IsFinished()).To(BeFalse())
		Expect(ev.TimeRemaining()).To(BeZero())

		ev.AddResult(false)
		ev.AddResult(false)
		Expect(ev.IsFinished()).To(BeTrue())
	})

	It("clears the latch on Start", func() {
		ev := session.NewBool(clk, time.Second, 10)
		ev.Start()
		clk.Advance(time.Second)
		Expect(ev.IsFinished()).To(BeTrue())

		ev.Start()
		Expect(ev.IsFinished()).To(BeFalse())
		Expect(ev.TimeRemaining()).To(Equal(time.Second))
	})

	It("reports zero average with no results", func() {
		ev := session.NewFloat(clk, time.Second, 5)
		ev.Start()
		clk.Advance(time.Second)
		Expect(ev.IsFinished()).To(BeTrue())
		Expect(ev.AverageScore()).To(Equal(0.0))
	})

	It("averages float results", func() {
		ev := session.NewFloat(clk, time.Minute, 10)
		ev.Start()
		ev.AddResult(0.5)
		ev.AddResult(1.0)
		ev.AddResult(0.0)
		Expect(ev.AverageScore()).To(BeNumerically("~", 0.5, 1e-9))
		Expect(ev.Scores()).To(Equal([]float64{0.5, 1.0, 0.0}))
	})

	It("scores tuples through the supplied scorer", func() {
		type attempt struct {
			level   int
			correct bool
		}
		ev := session.New(clk, 0, 4, func(a attempt) float64 { return session.BoolScore(a.correct) })
		ev.Start()
		ev.AddResult(attempt{3, true})
		ev.AddResult(attempt{3, false})
		ev.AddResult(attempt{3, false})

		Expect(ev.AverageScore()).To(BeNumerically("~", 1.0/3, 1e-9))
		Expect(ev.Last(2)).To(Equal([]attempt{{3, false}, {3, false}}))
		Expect(ev.Last(10)).To(HaveLen(3))
		Expect(ev.Results()[0]).To(Equal(attempt{3, true}))
	})

	It("never underflows reps remaining", func() {
		ev := session.NewBool(clk, 0, 1)
		ev.Start()
		ev.AddResult(true)
		ev.AddResult(true)
		Expect(ev.RepsRemaining()).To(Equal(0))
	})
})
