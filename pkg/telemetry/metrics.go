// Package telemetry collects preprocessing metrics for batch runs.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one run on a private registry.
type Metrics struct {
	reg      *prometheus.Registry
	rows     *prometheus.CounterVec
	unknown  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabprep",
			Name:      "rows_total",
			Help:      "Rows passed through a pipeline step.",
		}, []string{"step", "phase"}),
		unknown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabprep",
			Name:      "unknown_categories_total",
			Help:      "Values absent from the fitted vocabulary, encoded as all-zero blocks.",
		}, []string{"column"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tabprep",
			Name:      "step_duration_seconds",
			Help:      "Duration of fit and transform calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"step", "phase"}),
	}
	m.reg.MustRegister(m.rows, m.unknown, m.duration)
	return m
}

// ObserveStep matches pipeline.Observer.
func (m *Metrics) ObserveStep(step, phase string, rows int, took time.Duration) {
	m.rows.WithLabelValues(step, phase).Add(float64(rows))
	m.duration.WithLabelValues(step, phase).Observe(took.Seconds())
}

// ObserveUnknown matches the encoder's unknown-value observer.
func (m *Metrics) ObserveUnknown(column, count int) {
	m.unknown.WithLabelValues(strconv.Itoa(column)).Add(float64(count))
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

// WriteTextfile writes the metrics in the text exposition format for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
