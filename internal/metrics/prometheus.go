package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "kmeans"

// Prometheus holds the collectors of the clustering engine.
type Prometheus struct {
	Fits           *prometheus.CounterVec
	Restarts       *prometheus.CounterVec
	FitDuration    prometheus.Histogram
	Clusters       prometheus.Gauge
	Goodness       prometheus.Gauge
	Classification *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors, without registering them.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fits_total",
				Help:      "Number of fits by outcome.",
			}, []string{"outcome"}),
		Restarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "restarts_total",
				Help:      "Number of single k-means runs by cluster count.",
			}, []string{"k"}),
		FitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fit_duration_seconds",
				Help:      "Duration of the cluster count search.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			}),
		Clusters: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "clusters",
				Help:      "Number of clusters of the last fitted model.",
			}),
		Goodness: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "goodness",
				Help:      "Goodness of the last fitted model.",
			}),
		Classification: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classified_points_total",
				Help:      "Number of classified query points by method.",
			}, []string{"method"}),
	}
}

// Collectors returns all collectors for registration.
func (p Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.Fits,
		p.Restarts,
		p.FitDuration,
		p.Clusters,
		p.Goodness,
		p.Classification,
	}
}
