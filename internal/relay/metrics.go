package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Metrics are registered on the given registerer; a nil registerer keeps
// them private to the relay.
type Metrics struct {
	queued       prometheus.Counter
	dropped      prometheus.Counter
	handled      *prometheus.CounterVec
	initFailures prometheus.Counter
	duration     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		queued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pdfexplorer",
			Subsystem: "relay",
			Name:      "messages_queued_total",
			Help:      "Messages accepted into the relay inbox.",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pdfexplorer",
			Subsystem: "relay",
			Name:      "messages_dropped_total",
			Help:      "Queued messages left unhandled when the relay stopped.",
		}),
		handled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pdfexplorer",
			Subsystem: "relay",
			Name:      "messages_handled_total",
			Help:      "Messages handled by the module, by outcome.",
		}, []string{"outcome"}),
		initFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pdfexplorer",
			Subsystem: "relay",
			Name:      "init_failures_total",
			Help:      "Failed module initializations.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pdfexplorer",
			Subsystem: "relay",
			Name:      "handle_duration_seconds",
			Help:      "Time spent in the module per message.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
}

func (m *Metrics) Queued() prometheus.Counter {
	return m.queued
}

func (m *Metrics) Dropped() prometheus.Counter {
	return m.dropped
}

func (m *Metrics) Handled(ok bool) prometheus.Counter {
	if ok {
		return m.handled.WithLabelValues(outcomeOK)
	}
	return m.handled.WithLabelValues(outcomeError)
}

func (m *Metrics) InitFailures() prometheus.Counter {
	return m.initFailures
}

func (m *Metrics) observe(elapsed time.Duration, err error) {
	m.duration.Observe(elapsed.Seconds())
	m.Handled(err == nil).Inc()
}
