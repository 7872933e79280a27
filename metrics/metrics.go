package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ModelLoaded is 1 when a real model artifact was loaded at startup.
	ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leafscan",
		Subsystem: "inference",
		Name:      "model_loaded",
		Help:      "Whether a trained model artifact was loaded at startup (0 means mock mode).",
	})

	// PredictTotal counts classification requests by outcome.
	PredictTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leafscan",
		Subsystem: "inference",
		Name:      "predict_total",
		Help:      "Total number of /predict requests, labeled by result.",
	}, []string{"result"})

	// PredictDurationSeconds is end-to-end time per classification,
	// measured inside the handler.
	PredictDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leafscan",
		Subsystem: "inference",
		Name:      "predict_duration_seconds",
		Help:      "End-to-end time to serve a /predict request (staging + preprocessing + inference).",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"result"})

	// PredictedClassTotal counts predictions by canonical disease name.
	PredictedClassTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leafscan",
		Subsystem: "inference",
		Name:      "predicted_class_total",
		Help:      "Total number of successful predictions, labeled by disease.",
	}, []string{"disease"})
)

// Register registers all collectors with the default registry. Safe to
// call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ModelLoaded,
			PredictTotal,
			PredictDurationSeconds,
			PredictedClassTotal,
		)
	})
}
