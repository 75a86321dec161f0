package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ingestedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civicsense",
			Name:      "ingested_total",
			Help:      "Feedback items inserted during ingestion, partitioned by source.",
		},
		[]string{"source"},
	)

	ingestSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civicsense",
			Name:      "ingest_skipped_total",
			Help:      "Feedback items skipped as duplicates during ingestion, partitioned by source.",
		},
		[]string{"source"},
	)

	itemsProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "civicsense",
			Name:      "items_processed_total",
			Help:      "Feedback items successfully annotated and marked processed.",
		},
	)

	chunksFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "civicsense",
			Name:      "chunks_failed_total",
			Help:      "Annotation chunks left unprocessed after a failed service call.",
		},
	)

	annotationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "civicsense",
			Name:      "annotation_seconds",
			Help:      "Latency of one batch annotation call in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)
)

// Register attaches the civicsense collectors to the supplied
// Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ingestedTotal,
		ingestSkippedTotal,
		itemsProcessedTotal,
		chunksFailedTotal,
		annotationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveIngest records the outcome of one ingestion call.
func ObserveIngest(source string, inserted, skipped int) {
	ingestedTotal.WithLabelValues(source).Add(float64(inserted))
	ingestSkippedTotal.WithLabelValues(source).Add(float64(skipped))
}

// ObserveChunk records one annotation chunk outcome.
func ObserveChunk(duration time.Duration, processed int, failed bool) {
	if duration < 0 {
		duration = 0
	}
	annotationSeconds.Observe(duration.Seconds())
	if failed {
		chunksFailedTotal.Inc()
		return
	}
	itemsProcessedTotal.Add(float64(processed))
}
