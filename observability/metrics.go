package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "supra"

// MetricsObserver records events as Prometheus metrics:
//
//	supra_events_total{type,level}           every event
//	supra_oracle_duration_seconds{outcome}   events carrying a "duration"
//	supra_selection_items                    events carrying an "items" count
type MetricsObserver struct {
	events    *prometheus.CounterVec
	oracle    *prometheus.HistogramVec
	selection prometheus.Histogram
}

// NewMetricsObserver creates a MetricsObserver and registers its collectors
// with reg.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Observability events by type and level.",
		}, []string{"type", "level"}),
		oracle: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_duration_seconds",
			Help:      "Oracle round-trip latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		selection: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_items",
			Help:      "Selection size at the end of a turn.",
			Buckets:   prometheus.LinearBuckets(0, 2, 11),
		}),
	}

	for _, c := range []prometheus.Collector{m.events, m.oracle, m.selection} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsObserver) OnEvent(_ context.Context, event Event) {
	m.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()

	if d, ok := event.Data["duration"].(time.Duration); ok {
		outcome := "ok"
		if event.Level >= LevelError {
			outcome = "error"
		}
		m.oracle.WithLabelValues(outcome).Observe(d.Seconds())
	}

	if n, ok := event.Data["items"].(int); ok {
		m.selection.Observe(float64(n))
	}
}
