package worker_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"askhub.app/dispatch/internal/queue"
	"askhub.app/dispatch/internal/worker"
)

// fakeStream answers XAUTOCLAIM from scripted pages. Every other Cmdable
// method panics through the nil embedded interface.
type fakeStream struct {
	redis.Cmdable
	pages   []autoClaimPage
	starts  []string
	claimer string
}

type autoClaimPage struct {
	messages []redis.XMessage
	next     string
	err      error
}

func (f *fakeStream) XAutoClaim(ctx context.Context, a *redis.XAutoClaimArgs) *redis.XAutoClaimCmd {
	f.starts = append(f.starts, a.Start)
	f.claimer = a.Consumer
	cmd := redis.NewXAutoClaimCmd(ctx)
	if len(f.pages) == 0 {
		cmd.SetVal(nil, "0-0")
		return cmd
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	if page.err != nil {
		cmd.SetErr(page.err)
		return cmd
	}
	cmd.SetVal(page.messages, page.next)
	return cmd
}

func entry(id string, values map[string]any) redis.XMessage {
	return redis.XMessage{ID: id, Values: values}
}

var _ = Describe("RedisReclaimer", func() {
	var (
		stream    *fakeStream
		consumer  *mockConsumer
		processed []queue.Message
		reclaimer *worker.RedisReclaimer
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		stream = &fakeStream{}
		consumer = &mockConsumer{}
		processed = nil
		reclaimer = worker.NewRedisReclaimer(stream, worker.RedisReclaimerConfig{
			Stream:   "dispatch_assignments",
			Group:    "dispatch_group",
			Consumer: "worker-1-reclaimer",
		}, consumer, func(_ context.Context, msg queue.Message) error {
			processed = append(processed, msg)
			return nil
		})
	})

	It("processes claimed entries across pages", func() {
		stream.pages = []autoClaimPage{
			{messages: []redis.XMessage{entry("1-0", map[string]any{"task_type": "auto_assign", "question_id": "42", "attempt": "2"})}, next: "5-0"},
			{messages: []redis.XMessage{entry("6-0", map[string]any{"task_type": "process_pending", "trigger": "cron"})}, next: "0-0"},
		}

		n, err := reclaimer.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(stream.starts).To(Equal([]string{"0-0", "5-0"}))
		Expect(stream.claimer).To(Equal("worker-1-reclaimer"))
		Expect(processed).To(HaveLen(2))
		Expect(*processed[0].QuestionID).To(Equal(int64(42)))
		Expect(processed[0].Attempt).To(Equal(2))
		Expect(processed[1].TaskType).To(Equal(queue.TaskTypeProcessPending))
	})

	It("acks entries it cannot parse", func() {
		stream.pages = []autoClaimPage{
			{messages: []redis.XMessage{entry("1-0", map[string]any{"task_type": "auto_assign"})}, next: "0-0"},
		}

		n, err := reclaimer.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(processed).To(BeEmpty())
		acked, _, _ := consumer.snapshot()
		Expect(acked).To(Equal([]string{"1-0"}))
	})

	It("stops after a bounded number of pages", func() {
		for i := 0; i < 10; i++ {
			stream.pages = append(stream.pages, autoClaimPage{next: "9-0"})
		}

		_, err := reclaimer.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(stream.starts).To(HaveLen(5))
	})

	It("returns redis errors", func() {
		stream.pages = []autoClaimPage{{err: errors.New("NOGROUP")}}

		_, err := reclaimer.ReclaimOnce(ctx)

		Expect(err).To(MatchError(ContainSubstring("NOGROUP")))
	})
})
