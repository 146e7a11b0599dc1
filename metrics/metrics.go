package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SamplesRecorded tracks accepted samples per metric name
	SamplesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rum_samples_recorded_total",
		Help: "Total number of Web Vitals samples recorded",
	}, []string{"metric"})

	// SamplesDropped tracks silently discarded samples by reason
	SamplesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rum_samples_dropped_total",
		Help: "Total number of Web Vitals samples dropped during ingestion",
	}, []string{"reason"})

	// BatchesRejected tracks batches that failed top-level validation
	BatchesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rum_batches_rejected_total",
		Help: "Total number of rejected Web Vitals batches",
	})

	// SamplesEvicted tracks samples removed by retention or the size cap
	SamplesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rum_samples_evicted_total",
		Help: "Total number of samples evicted from the store",
	})

	// StoreSamples tracks how many samples the store currently holds
	StoreSamples = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rum_store_samples",
		Help: "Number of samples currently held in the store",
	})
)

// RecordSampleRecorded increments the recorded counter for a metric name
func RecordSampleRecorded(metric string) {
	SamplesRecorded.WithLabelValues(metric).Inc()
}

// RecordSampleDropped increments the dropped counter for a reason
func RecordSampleDropped(reason string) {
	SamplesDropped.WithLabelValues(reason).Inc()
}

// RecordBatchRejected increments the rejected batch counter
func RecordBatchRejected() {
	BatchesRejected.Inc()
}

// RecordSamplesEvicted adds n to the eviction counter
func RecordSamplesEvicted(n int) {
	SamplesEvicted.Add(float64(n))
}

// SetStoreSamples sets the store size gauge
func SetStoreSamples(n int) {
	StoreSamples.Set(float64(n))
}
