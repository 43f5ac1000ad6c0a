package bench

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts trials and times runs on a private registry. It is also a
// Sink so it can sit next to the others in a MultiSink.
type Metrics struct {
	registry *prometheus.Registry
	trials   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the harness collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qgrover_trials_total",
			Help: "Grover trials by qubit count and read-out result",
		}, []string{"qubits", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qgrover_run_duration_seconds",
			Help:    "Wall time of one full Grover run",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs to ~4s
		}, []string{"qubits"}),
	}
	m.registry.MustRegister(m.trials, m.duration)
	return m
}

// Registry exposes the collectors for scraping or export.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Record(t Trial) error {
	q := strconv.Itoa(t.Qubits)
	m.trials.WithLabelValues(q, t.Result()).Inc()
	m.duration.WithLabelValues(q).Observe(t.Elapsed.Seconds())
	return nil
}

func (m *Metrics) Close() error { return nil }

// WriteTextfile dumps the registry in the Prometheus text format, suitable
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
