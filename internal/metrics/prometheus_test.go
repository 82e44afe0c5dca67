package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"askhub.app/dispatch/internal/metrics"
	"askhub.app/dispatch/internal/model"
	"askhub.app/dispatch/internal/routing"
)

var _ = Describe("Prometheus", func() {
	var (
		reg *prometheus.Registry
		p   *metrics.Prometheus
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		p = metrics.NewPrometheus(reg, "test")
	})

	counter := func(name string, labels map[string]string) float64 {
		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		for _, mf := range families {
			if mf.GetName() != name {
				continue
			}
			for _, m := range mf.GetMetric() {
				match := true
				for _, lp := range m.GetLabel() {
					if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
						match = false
					}
				}
				if match {
					return m.GetCounter().GetValue()
				}
			}
		}
		return 0
	}

	It("labels decisions by outcome and path", func() {
		p.ObserveDecision(routing.Result{Success: true, Moderator: &model.User{ID: 1}}, 10*time.Millisecond)
		p.ObserveDecision(routing.Result{Success: true, Fallback: true, Moderator: &model.User{ID: 1}}, 10*time.Millisecond)
		p.ObserveDecision(routing.Result{Reason: routing.ReasonNoCandidates}, time.Millisecond)

		Expect(counter("test_routing_decisions_total", map[string]string{"outcome": "assigned", "path": "skill"})).To(Equal(1.0))
		Expect(counter("test_routing_decisions_total", map[string]string{"outcome": "assigned", "path": "fallback"})).To(Equal(1.0))
		Expect(counter("test_routing_decisions_total", map[string]string{"outcome": "no_candidates", "path": "none"})).To(Equal(1.0))
	})

	It("tracks gauges", func() {
		p.SetPending(4)
		p.SetStale(2)
		p.SetModeratorWorkload(42, 3)

		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())
		values := map[string]float64{}
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				if g := m.GetGauge(); g != nil {
					values[mf.GetName()] = g.GetValue()
				}
			}
		}
		Expect(values).To(HaveKeyWithValue("test_routing_pending_questions", 4.0))
		Expect(values).To(HaveKeyWithValue("test_routing_stale_questions", 2.0))
		Expect(values).To(HaveKeyWithValue("test_routing_moderator_active_questions", 3.0))
	})

	It("counts queue outcomes", func() {
		p.MessageHandled("acked")
		p.MessageHandled("acked")
		p.MessageHandled("dead_lettered")

		Expect(counter("test_queue_messages_total", map[string]string{"outcome": "acked"})).To(Equal(2.0))
		Expect(counter("test_queue_messages_total", map[string]string{"outcome": "dead_lettered"})).To(Equal(1.0))
	})
})
