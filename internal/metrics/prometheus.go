package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"askhub.app/dispatch/internal/routing"
)

const defaultNamespace = "dispatch"

// Prometheus records routing and queue activity.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	decisions       *prometheus.CounterVec
	decisionLatency prometheus.Histogram
	batchSize       prometheus.Histogram
	pending         prometheus.Gauge
	stale           prometheus.Gauge
	moderatorActive *prometheus.GaugeVec
	messagesHandled *prometheus.CounterVec
}

var _ routing.Recorder = (*Prometheus)(nil)

// NewPrometheus registers collectors on reg, or on the default registerer
// when reg is nil.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}

	p := &Prometheus{reg: reg, namespace: namespace}
	p.ensureRegistered()
	return p
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "decisions_total",
			Help:      "Assignment decisions by outcome (assigned or failure reason) and path (skill, fallback, none).",
		}, []string{"outcome", "path"})

		p.decisionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "decision_duration_seconds",
			Help:      "Time to reach an assignment decision, lock wait included.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		})

		p.batchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "batch_questions",
			Help:      "Questions handled per process-pending run.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		})

		p.pending = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "pending_questions",
			Help:      "Pending questions at the last batch run or stats read.",
		})

		p.stale = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "stale_questions",
			Help:      "Active questions past the staleness threshold at the last scan.",
		})

		p.moderatorActive = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "moderator_active_questions",
			Help:      "Assigned and in-progress questions per moderator.",
		}, []string{"moderator_id"})

		p.messagesHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "queue",
			Name:      "messages_total",
			Help:      "Assignment queue messages by outcome (acked, retried, dead_lettered).",
		}, []string{"outcome"})

		p.reg.MustRegister(
			p.decisions,
			p.decisionLatency,
			p.batchSize,
			p.pending,
			p.stale,
			p.moderatorActive,
			p.messagesHandled,
		)
	})
}

func (p *Prometheus) ObserveDecision(result routing.Result, elapsed time.Duration) {
	outcome := "assigned"
	path := "skill"
	switch {
	case !result.Success:
		outcome = string(result.Reason)
		path = "none"
	case result.Fallback:
		path = "fallback"
	}

	p.decisions.WithLabelValues(outcome, path).Inc()
	p.decisionLatency.Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveBatch(processed int) {
	p.batchSize.Observe(float64(processed))
}

func (p *Prometheus) SetPending(n int) {
	p.pending.Set(float64(n))
}

func (p *Prometheus) SetStale(n int) {
	p.stale.Set(float64(n))
}

func (p *Prometheus) SetModeratorWorkload(moderatorID int64, active int) {
	p.moderatorActive.WithLabelValues(strconv.FormatInt(moderatorID, 10)).Set(float64(active))
}

func (p *Prometheus) MessageHandled(outcome string) {
	p.messagesHandled.WithLabelValues(outcome).Inc()
}
