// Package metrics holds the Prometheus instruments of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for imports, training and prediction.
type Metrics struct {
	ImportBatchesTotal   *prometheus.CounterVec
	ImportRowsTotal      *prometheus.CounterVec
	PatientsCreatedTotal prometheus.Counter
	ImportDuration       prometheus.Histogram
	TrainingRunsTotal    *prometheus.CounterVec
	PredictionsTotal     *prometheus.CounterVec
}

// New returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - showup_import_batches_total{outcome} - import batches by "ok" or "failed"
//   - showup_import_rows_total{result} - rows by "imported" or "rejected"
//   - showup_patients_created_total - patient summaries created by imports
//   - showup_import_duration_seconds - time spent applying a batch
//   - showup_training_runs_total{outcome} - training runs by outcome
//   - showup_predictions_total{risk_level} - predictions by risk level
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ImportBatchesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "showup_import_batches_total",
					Help: "Total number of appointment import batches",
				},
				[]string{"outcome"},
			),
			ImportRowsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "showup_import_rows_total",
					Help: "Total number of appointment import rows",
				},
				[]string{"result"},
			),
			PatientsCreatedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "showup_patients_created_total",
					Help: "Total number of patients created by imports",
				},
			),
			ImportDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "showup_import_duration_seconds",
					Help:    "Duration of appointment import batches in seconds",
					Buckets: prometheus.DefBuckets,
				},
			),
			TrainingRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "showup_training_runs_total",
					Help: "Total number of model training runs",
				},
				[]string{"outcome"},
			),
			PredictionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "showup_predictions_total",
					Help: "Total number of no-show risk predictions",
				},
				[]string{"risk_level"},
			),
		}
	})
	return globalMetrics
}
