package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/routing"
	"askhub.app/dispatch/internal/worker"
)

var _ = Describe("Scheduler", func() {
	var (
		ctx    context.Context
		router *mockRouter
	)

	BeforeEach(func() {
		ctx = context.Background()
		router = &mockRouter{}
	})

	It("rejects malformed cron specs", func() {
		_, err := worker.NewScheduler(router, worker.SchedulerConfig{ProcessPendingSpec: "every five minutes"})

		Expect(err).To(MatchError(ContainSubstring("scheduling process-pending")))
	})

	It("runs the batch with the cron trigger", func() {
		router.processPendingFn = func(context.Context, queue.Trigger) routing.BatchResult {
			return routing.BatchResult{Success: true, Processed: 4, Assigned: 3, Failed: 1}
		}
		s, err := worker.NewScheduler(router, worker.SchedulerConfig{})
		Expect(err).NotTo(HaveOccurred())

		result := s.RunProcessPending(ctx)

		Expect(result.Assigned).To(Equal(3))
		Expect(router.triggers).To(Equal([]queue.Trigger{queue.TriggerCron}))
	})

	It("scans with the configured threshold", func() {
		var hours int
		router.findStaleFn = func(_ context.Context, h int) ([]routing.StaleQuestion, error) {
			hours = h
			return []routing.StaleQuestion{{
				Question:         model.Question{ID: 7, Status: model.QuestionStatusAssigned},
				HoursSinceUpdate: 30,
			}}, nil
		}
		s, err := worker.NewScheduler(router, worker.SchedulerConfig{StaleHours: 12})
		Expect(err).NotTo(HaveOccurred())

		stale := s.RunStaleScan(ctx)

		Expect(hours).To(Equal(12))
		Expect(stale).To(HaveLen(1))
	})

	It("swallows stale scan errors", func() {
		router.findStaleFn = func(context.Context, int) ([]routing.StaleQuestion, error) {
			return nil, errors.New("db down")
		}
		s, err := worker.NewScheduler(router, worker.SchedulerConfig{})
		Expect(err).NotTo(HaveOccurred())

		Expect(s.RunStaleScan(ctx)).To(BeNil())
	})

	It("fires jobs on schedule and stops cleanly", func() {
		ran := make(chan struct{}, 10)
		router.processPendingFn = func(context.Context, queue.Trigger) routing.BatchResult {
			ran <- struct{}{}
			return routing.BatchResult{Success: true}
		}
		s, err := worker.NewScheduler(router, worker.SchedulerConfig{ProcessPendingSpec: "@every 1s"})
		Expect(err).NotTo(HaveOccurred())

		s.Start(ctx)
		Eventually(ran).WithTimeout(3 * time.Second).Should(Receive())
		s.Stop()
	})
})
