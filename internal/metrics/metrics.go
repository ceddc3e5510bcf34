// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "housingdemand"

// Recorder implements engine.Recorder on top of Prometheus collectors.
type Recorder struct {
	scenariosTotal   *prometheus.CounterVec
	projectionPoints *prometheus.HistogramVec
	fallbacksTotal   *prometheus.CounterVec
}

// NewRecorder creates the engine collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to keep registrations isolated.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		scenariosTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "scenarios_total",
				Help:      "Total number of projected scenarios by model variant",
			},
			[]string{"variant"},
		),
		projectionPoints: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "projection_points",
				Help:      "Number of projected years per scenario",
				Buckets:   []float64{1, 5, 10, 20, 30, 50, 100},
			},
			[]string{"variant"},
		),
		fallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "selection_fallbacks_total",
				Help:      "Total number of unknown selection keys replaced by the default, by dimension",
			},
			[]string{"dimension"},
		),
	}

	for _, c := range []prometheus.Collector{r.scenariosTotal, r.projectionPoints, r.fallbacksTotal} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering engine metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveScenario counts one projected scenario and records its length.
func (r *Recorder) ObserveScenario(variant string, points int) {
	r.scenariosTotal.WithLabelValues(variant).Inc()
	r.projectionPoints.WithLabelValues(variant).Observe(float64(points))
}

// ObserveFallback counts one selection fallback.
func (r *Recorder) ObserveFallback(dimension string) {
	r.fallbacksTotal.WithLabelValues(dimension).Inc()
}
