package exercise_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/stage"
)

var _ = Describe("Registry", func() {
	var r *exercise.Registry

	BeforeEach(func() {
		r = exercise.NewRegistry()
	})

	It("builds every kind", func() {
		for _, k := range exercise.Kinds {
			ex, err := r.New(k, exercise.Deps{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ex.Kind()).To(Equal(k))
			Expect(ex.Name()).To(Equal(k.Title()))
			Expect(ex.Stage()).To(Equal(stage.None))
		}
	})

	It("rejects unknown kinds", func() {
		_, err := r.New("juggling", exercise.Deps{})
		Expect(err).To(MatchError(exercise.ErrUnknownKind))

		_, err = exercise.ParseKind("juggling")
		Expect(err).To(MatchError(exercise.ErrUnknownKind))
	})

	It("parses kinds by name", func() {
		k, err := exercise.ParseKind("container_search")
		Expect(err).NotTo(HaveOccurred())
		Expect(k).To(Equal(exercise.KindContainerSearch))
	})

	It("lists exercises in menu order", func() {
		all := r.All(exercise.Deps{})
		Expect(all).To(HaveLen(len(exercise.Kinds)))
		for i, ex := range all {
			Expect(ex.Kind()).To(Equal(exercise.Kinds[i]))
		}
	})
})
