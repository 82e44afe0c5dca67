package routing_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/routing"
)

var _ = Describe("Engine.ProcessPending", func() {
	var (
		ctx      context.Context
		base     time.Time
		mem      *memStore
		recorder *fakeRecorder
		engine   *routing.Engine
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		mem = newMemStore(base)
		recorder = &fakeRecorder{}
		engine = routing.NewEngine(mem, mem, routing.WithRecorder(recorder))
	})

	It("spreads questions evenly across idle moderators", func() {
		for i := int64(1); i <= 3; i++ {
			mem.addModerator(i)
			mem.addQuestion(model.Question{ID: 100 + i, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		}

		out := engine.ProcessPending(ctx)

		Expect(out.Success).To(BeTrue())
		Expect(out.Processed).To(Equal(3))
		Expect(out.Assigned).To(Equal(3))

		perModerator := map[int64]int{}
		for i := int64(1); i <= 3; i++ {
			q := mem.question(100 + i)
			Expect(q.Status).To(Equal(model.QuestionStatusAssigned))
			perModerator[*q.AssignedTo]++
		}
		Expect(perModerator).To(Equal(map[int64]int{1: 1, 2: 1, 3: 1}))
	})

	It("handles urgent questions first and older questions first within a priority", func() {
		mem.addModerator(1)
		mem.addQuestion(model.Question{ID: 1, Priority: model.PriorityLow, CreatedAt: base})
		mem.addQuestion(model.Question{ID: 2, Priority: model.PriorityUrgent, CreatedAt: base.Add(3 * time.Hour)})
		mem.addQuestion(model.Question{ID: 3, Priority: model.PriorityHigh, CreatedAt: base.Add(time.Hour)})
		mem.addQuestion(model.Question{ID: 4, Priority: model.PriorityUrgent, CreatedAt: base.Add(2 * time.Hour)})
		mem.addQuestion(model.Question{ID: 5, Priority: model.PriorityMedium, CreatedAt: base})

		out := engine.ProcessPending(ctx)

		order := make([]int64, len(out.Results))
		for i, item := range out.Results {
			order[i] = item.QuestionID
		}
		Expect(order).To(Equal([]int64{4, 2, 3, 5, 1}))
	})

	It("keeps going when one question fails", func() {
		mem.addModerator(1, "python")
		mem.addQuestion(model.Question{ID: 1, SuggestedSkills: []string{"python"}, CreatedAt: base})
		mem.addQuestion(model.Question{ID: 2, SuggestedSkills: []string{"python"}, CreatedAt: base.Add(time.Minute)})

		// Fail only the first write.
		fails := 1
		flaky := &flakyAssignStore{memStore: mem, failures: &fails}
		engine = routing.NewEngine(flaky, mem)

		out := engine.ProcessPending(ctx)

		Expect(out.Success).To(BeTrue())
		Expect(out.Processed).To(Equal(2))
		Expect(out.Failed).To(Equal(1))
		Expect(out.Results[0].Result.Reason).To(Equal(routing.ReasonPersistenceFailure))
		Expect(out.Results[1].Result.Success).To(BeTrue())
		Expect(mem.question(1).Status).To(Equal(model.QuestionStatusPending))
	})

	It("reports a listing failure", func() {
		mem.listPendingErr = errors.New("connection reset")

		out := engine.ProcessPending(ctx)

		Expect(out.Success).To(BeFalse())
		Expect(out.Message).NotTo(BeEmpty())
		Expect(out.Results).To(BeEmpty())
	})

	It("records batch size and pending count", func() {
		mem.addModerator(1)
		mem.addQuestion(model.Question{ID: 1})
		mem.addQuestion(model.Question{ID: 2})

		engine.ProcessPending(ctx)

		Expect(recorder.batches).To(Equal([]int{2}))
		Expect(recorder.pending).To(Equal(2))
		Expect(recorder.decisions).To(HaveLen(2))
	})

	It("succeeds with nothing to do", func() {
		out := engine.ProcessPending(ctx)

		Expect(out.Success).To(BeTrue())
		Expect(out.Processed).To(BeZero())
		Expect(out.Results).To(BeEmpty())
	})
})

type flakyAssignStore struct {
	*memStore
	failures *int
}

func (s *flakyAssignStore) AssignIfPending(ctx context.Context, id, moderatorID int64) (*model.Question, error) {
	if *s.failures > 0 {
		*s.failures--
		return nil, errors.New("serialization failure")
	}
	return s.memStore.AssignIfPending(ctx, id, moderatorID)
}
