package routing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/routing"
)

var _ = Describe("MatchFraction", func() {
	DescribeTable("partial case-insensitive matching",
		func(moderator, question []string, want float64) {
			Expect(routing.MatchFraction(moderator, question)).To(BeNumerically("~", want, 1e-9))
		},
		Entry("no question skills", []string{"python"}, []string{}, 0.0),
		Entry("nil question skills", []string{"python"}, nil, 0.0),
		Entry("no moderator skills", nil, []string{"python"}, 0.0),
		Entry("exact match", []string{"python"}, []string{"python"}, 1.0),
		Entry("case differs", []string{"Python"}, []string{"PYTHON"}, 1.0),
		Entry("question skill inside moderator skill", []string{"javascript"}, []string{"java"}, 1.0),
		Entry("moderator skill inside question skill", []string{"react"}, []string{"react-native"}, 1.0),
		Entry("half matched", []string{"python", "django"}, []string{"python", "rust"}, 0.5),
		Entry("unrelated", []string{"javascript"}, []string{"python"}, 0.0),
		Entry("blank moderator skill does not match everything", []string{" "}, []string{"python"}, 0.0),
	)

	It("never drops when moderator skills are added", func() {
		question := []string{"go", "postgres", "kubernetes", "redis"}
		skills := []string{}
		prev := routing.MatchFraction(skills, question)

		for _, s := range []string{"golang", "ruby", "PostgreSQL", "k8s", "redis-cluster", "kubernetes"} {
			skills = append(skills, s)
			next := routing.MatchFraction(skills, question)
			Expect(next).To(BeNumerically(">=", prev))
			prev = next
		}
		Expect(prev).To(Equal(1.0))
	})

	It("is always zero for empty question skills", func() {
		for _, skills := range [][]string{nil, {}, {"python"}, {"a", "b", "c"}} {
			Expect(routing.MatchFraction(skills, nil)).To(BeZero())
		}
	})
})

var _ = Describe("Score", func() {
	It("strictly decreases as workload grows", func() {
		for w := 0; w < 10; w++ {
			Expect(routing.Score(0.5, w+1)).To(BeNumerically("<", routing.Score(0.5, w)))
		}
	})

	It("strictly increases with skill match", func() {
		for w := 0; w < 5; w++ {
			Expect(routing.Score(1.0, w)).To(BeNumerically(">", routing.Score(0.5, w)))
			Expect(routing.Score(0.5, w)).To(BeNumerically(">", routing.Score(0.25, w)))
		}
	})

	It("is finite at zero workload", func() {
		Expect(routing.Score(1.0, 0)).To(Equal(1.0))
		Expect(routing.Score(0, 0)).To(BeZero())
	})
})
