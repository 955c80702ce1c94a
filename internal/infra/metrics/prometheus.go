// Package metrics exports roster operation and population metrics to
// Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"roster/pkg/domain"
)

const namespace = "roster"

// PrometheusRecorder implements core.MetricsRecorder.
type PrometheusRecorder struct {
	latency    *prometheus.HistogramVec
	operations *prometheus.CounterVec
}

// NewPrometheusRecorder registers the operation metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		// Labels: operation, status (success, error)
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operation_duration_seconds",
			Help:      "Latency of roster commands including persistence",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation", "status"}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "operations_total",
			Help:      "Roster commands by outcome",
		}, []string{"operation", "status"}),
	}
}

// Observe implements core.MetricsRecorder.
func (r *PrometheusRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	r.latency.WithLabelValues(operation, status).Observe(duration.Seconds())
	r.operations.WithLabelValues(operation, status).Inc()
}

// PopulationGauges is a change subscriber publishing the roster's size and
// age extremes.
type PopulationGauges struct {
	people   prometheus.Gauge
	oldest   prometheus.Gauge
	youngest prometheus.Gauge
	changes  *prometheus.CounterVec
}

var _ domain.Subscriber = (*PopulationGauges)(nil)

// NewPopulationGauges registers the population gauges on reg.
func NewPopulationGauges(reg prometheus.Registerer) *PopulationGauges {
	factory := promauto.With(reg)
	return &PopulationGauges{
		people: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "roster", Name: "people",
			Help: "Number of people in the roster",
		}),
		oldest: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "roster", Name: "oldest_age",
			Help: "Highest age in the roster, 0 when empty",
		}),
		youngest: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "roster", Name: "youngest_age",
			Help: "Lowest age in the roster, 0 when empty",
		}),
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "roster", Name: "changes_total",
			Help: "Change events delivered on the bus",
		}, []string{"action"}),
	}
}

// Name implements domain.Subscriber.
func (g *PopulationGauges) Name() string { return "metrics" }

// OnChange implements domain.Subscriber.
func (g *PopulationGauges) OnChange(_ context.Context, view domain.View, change domain.Change) error {
	g.changes.WithLabelValues(string(change.Action)).Inc()
	oldest, youngest := 0, 0
	for i, p := range view.People() {
		if i == 0 || p.Age > oldest {
			oldest = p.Age
		}
		if i == 0 || p.Age < youngest {
			youngest = p.Age
		}
	}
	g.people.Set(float64(view.Len()))
	g.oldest.Set(float64(oldest))
	g.youngest.Set(float64(youngest))
	return nil
}
