package notary

import (
	"github.com/iov-one/iou/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts notary decisions. A nil collector is valid and records
// nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
}

// NewMetrics returns a collector registered with given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "iou",
				Name:      "notary_submissions_total",
				Help:      "Total number of transitions submitted to the notary, by result.",
			},
			[]string{"result"},
		),
	}
	if err := reg.Register(m.submissions); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return m, nil
}

func (m *Metrics) observe(err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.ErrConflict.Is(err):
		return "conflict"
	case errors.ErrUnauthorized.Is(err):
		return "unauthorized"
	case errors.ErrDatabase.Is(err):
		return "failure"
	default:
		return "invalid"
	}
}
