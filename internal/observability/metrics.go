// Package observability carries the batch-job metrics for a reproduction
// run. A one-shot process has nothing to scrape, so the registry is
// exported as a textfile next to the result artifacts.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	datasetsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mhnctl",
			Subsystem: "repro",
			Name:      "datasets_total",
			Help:      "Datasets fully processed.",
		},
	)
	trainings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mhnctl",
			Subsystem: "repro",
			Name:      "trainings_total",
			Help:      "Model trainings by variant.",
		},
		[]string{"variant"},
	)
	trainingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mhnctl",
			Subsystem: "repro",
			Name:      "training_duration_seconds",
			Help:      "Wall time per model training, lambda search included.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		},
		[]string{"variant"},
	)
	selectedLambda = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mhnctl",
			Subsystem: "repro",
			Name:      "selected_lambda",
			Help:      "Regularization strength chosen by cross-validation.",
		},
		[]string{"dataset", "variant"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(datasetsProcessed, trainings, trainingDuration, selectedLambda)
	})
}

func RecordTraining(dataset, variant string, lambda float64, duration time.Duration) {
	RegisterMetrics()
	trainings.WithLabelValues(variant).Inc()
	trainingDuration.WithLabelValues(variant).Observe(duration.Seconds())
	selectedLambda.WithLabelValues(dataset, variant).Set(lambda)
}

func RecordDataset() {
	RegisterMetrics()
	datasetsProcessed.Inc()
}
