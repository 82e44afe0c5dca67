package routing_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/routing"
)

var _ = Describe("Engine.FindStale", func() {
	var (
		ctx      context.Context
		now      time.Time
		mem      *memStore
		recorder *fakeRecorder
		engine   *routing.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		mem = newMemStore(now)
		recorder = &fakeRecorder{}
		engine = routing.NewEngine(mem, mem,
			routing.WithClock(func() time.Time { return now }),
			routing.WithRecorder(recorder),
		)
	})

	It("includes a question untouched for 30 hours and skips one touched an hour ago", func() {
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusAssigned, AssignedTo: ptr(int64(9)), UpdatedAt: now.Add(-30 * time.Hour)})
		mem.addQuestion(model.Question{ID: 2, Status: model.QuestionStatusAssigned, AssignedTo: ptr(int64(9)), UpdatedAt: now.Add(-time.Hour)})

		stale, err := engine.FindStale(ctx, 24)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).To(HaveLen(1))
		Expect(stale[0].ID).To(Equal(int64(1)))
		Expect(stale[0].HoursSinceUpdate).To(Equal(30))
		Expect(recorder.stale).To(Equal(1))
	})

	It("only considers assigned and in-progress questions", func() {
		old := now.Add(-72 * time.Hour)
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusPending, UpdatedAt: old})
		mem.addQuestion(model.Question{ID: 2, Status: model.QuestionStatusInProgress, AssignedTo: ptr(int64(9)), UpdatedAt: old})
		mem.addQuestion(model.Question{ID: 3, Status: model.QuestionStatusAnswered, AssignedTo: ptr(int64(9)), UpdatedAt: old})
		mem.addQuestion(model.Question{ID: 4, Status: model.QuestionStatusClosed, UpdatedAt: old})

		stale, err := engine.FindStale(ctx, 24)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).To(HaveLen(1))
		Expect(stale[0].ID).To(Equal(int64(2)))
	})

	It("orders by oldest update first", func() {
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusAssigned, UpdatedAt: now.Add(-26 * time.Hour)})
		mem.addQuestion(model.Question{ID: 2, Status: model.QuestionStatusAssigned, UpdatedAt: now.Add(-90 * time.Hour)})
		mem.addQuestion(model.Question{ID: 3, Status: model.QuestionStatusAssigned, UpdatedAt: now.Add(-48 * time.Hour)})

		stale, err := engine.FindStale(ctx, 24)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).To(HaveLen(3))
		Expect([]int64{stale[0].ID, stale[1].ID, stale[2].ID}).To(Equal([]int64{2, 3, 1}))
	})

	It("uses the default threshold when hours is not positive", func() {
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusAssigned, UpdatedAt: now.Add(-25 * time.Hour)})
		mem.addQuestion(model.Question{ID: 2, Status: model.QuestionStatusAssigned, UpdatedAt: now.Add(-23 * time.Hour)})

		stale, err := engine.FindStale(ctx, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).To(HaveLen(1))
		Expect(stale[0].ID).To(Equal(int64(1)))
	})

	It("honours a configured default", func() {
		engine = routing.NewEngine(mem, mem,
			routing.WithClock(func() time.Time { return now }),
			routing.WithStaleHours(2),
		)
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusAssigned, UpdatedAt: now.Add(-3 * time.Hour)})

		stale, err := engine.FindStale(ctx, -1)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).To(HaveLen(1))
	})

	It("clamps thresholds too large for a duration instead of reporting fresh questions", func() {
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusAssigned, AssignedTo: ptr(int64(9)), UpdatedAt: now.Add(-time.Hour)})
		mem.addQuestion(model.Question{ID: 2, Status: model.QuestionStatusAssigned, AssignedTo: ptr(int64(9)), UpdatedAt: now.AddDate(-11, 0, 0)})

		stale, err := engine.FindStale(ctx, 3_000_000)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).To(HaveLen(1))
		Expect(stale[0].ID).To(Equal(int64(2)))
	})

	It("does not modify anything", func() {
		mem.addQuestion(model.Question{ID: 1, Status: model.QuestionStatusAssigned, AssignedTo: ptr(int64(9)), UpdatedAt: now.Add(-30 * time.Hour)})
		before := mem.question(1)

		_, err := engine.FindStale(ctx, 24)

		Expect(err).NotTo(HaveOccurred())
		Expect(mem.question(1)).To(Equal(before))
		Expect(mem.assignCalls).To(BeZero())
	})
})
