package flow

import (
	"time"

	"github.com/iov-one/iou/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects flow outcomes. A nil collector is valid and records
// nothing.
type Metrics struct {
	flows    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics returns a collector registered with given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		flows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iou",
				Name:      "flows_total",
				Help:      "Total number of completed flows, by role and outcome.",
			},
			[]string{"role", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "iou",
				Name:      "flow_duration_seconds",
				Help:      "Flow duration in seconds, by role.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"role"},
		),
	}
	for _, c := range []prometheus.Collector{m.flows, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return m, nil
}

func (m *Metrics) observe(role string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.flows.WithLabelValues(role, outcome(err)).Inc()
	m.duration.WithLabelValues(role).Observe(time.Since(start).Seconds())
}

// outcome classifies the result of a flow.
func outcome(err error) string {
	switch {
	case err == nil:
		return "finalized"
	case errors.ErrRejected.Is(err):
		return "rejected"
	case errors.ErrConflict.Is(err):
		return "conflict"
	case errors.ErrProtocol.Is(err), errors.ErrTimeout.Is(err):
		return "failed"
	default:
		return "invalid"
	}
}
