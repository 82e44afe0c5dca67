package routing_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/internal/routing"
)

var _ = Describe("KeyedLocker", func() {
	var locker *routing.KeyedLocker

	BeforeEach(func() {
		locker = routing.NewKeyedLocker()
	})

	It("blocks a second holder until the first unlocks", func() {
		unlock, err := locker.Lock(context.Background(), []int64{1})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(ctx, []int64{1})
		Expect(err).To(MatchError(context.DeadlineExceeded))

		unlock()
		unlock2, err := locker.Lock(context.Background(), []int64{1})
		Expect(err).NotTo(HaveOccurred())
		unlock2()
	})

	It("does not block disjoint moderators", func() {
		unlock, err := locker.Lock(context.Background(), []int64{1, 2})
		Expect(err).NotTo(HaveOccurred())
		defer unlock()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		unlock2, err := locker.Lock(ctx, []int64{3})
		Expect(err).NotTo(HaveOccurred())
		unlock2()
	})

	It("releases partially acquired ids when giving up", func() {
		unlock, err := locker.Lock(context.Background(), []int64{2})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(ctx, []int64{1, 2})
		Expect(err).To(HaveOccurred())
		unlock()

		// 1 must be free again.
		unlock1, err := locker.Lock(context.Background(), []int64{1})
		Expect(err).NotTo(HaveOccurred())
		unlock1()
	})

	It("tolerates duplicate ids", func() {
		unlock, err := locker.Lock(context.Background(), []int64{4, 4, 4})
		Expect(err).NotTo(HaveOccurred())
		unlock()
	})

	It("does not deadlock on overlapping pools taken in different orders", func() {
		var wg sync.WaitGroup
		pools := [][]int64{{1, 2, 3}, {3, 2, 1}, {2, 3}, {3, 1}}

		for _, pool := range pools {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for range 50 {
					unlock, err := locker.Lock(context.Background(), pool)
					Expect(err).NotTo(HaveOccurred())
					unlock()
				}
			}()
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		Eventually(done).WithTimeout(5 * time.Second).Should(BeClosed())
	})
})
