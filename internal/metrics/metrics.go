package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer is the process wide metrics instance, registered with the default registry.
var Observer = NewMetrics()

func init() {
	prometheus.MustRegister(Observer.prometheus.Collectors()...)
}

// Metrics records the activity of the clustering engine.
type Metrics struct {
	prometheus Prometheus
}

// NewMetrics creates an unregistered metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		prometheus: NewPrometheusMetrics(),
	}
}

// Register registers the collectors with the given registerer.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.prometheus.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Fit records a successful fit.
func (m *Metrics) Fit(d time.Duration, k int, goodness float64) {
	m.prometheus.Fits.WithLabelValues("success").Inc()
	m.prometheus.FitDuration.Observe(d.Seconds())
	m.prometheus.Clusters.Set(float64(k))
	m.prometheus.Goodness.Set(goodness)
}

// FitFailed records a failed fit.
func (m *Metrics) FitFailed(d time.Duration) {
	m.prometheus.Fits.WithLabelValues("failure").Inc()
	m.prometheus.FitDuration.Observe(d.Seconds())
}

// Restarts records the number of single runs performed for k clusters.
func (m *Metrics) Restarts(k, n int) {
	m.prometheus.Restarts.WithLabelValues(strconv.Itoa(k)).Add(float64(n))
}

// Classified records the number of points classified with the given method.
func (m *Metrics) Classified(method string, n int) {
	m.prometheus.Classification.WithLabelValues(method).Add(float64(n))
}
