package ingest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsCommittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "batchwell",
			Name:      "ingest_records_committed_total",
			Help:      "Records successfully committed by a batch INSERT",
		},
		[]string{"table"},
	)
	batchesFlushedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "batchwell",
			Name:      "ingest_batches_flushed_total",
			Help:      "Batch INSERT statements executed",
		},
		[]string{"table"},
	)
	batchFlushSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "batchwell",
			Name:      "ingest_batch_flush_seconds",
			Help:      "Duration of one batch INSERT statement",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"table"},
	)
	channelDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "batchwell",
			Name:      "ingest_channel_depth",
			Help:      "Number of records currently buffered in the decoder->inserter channel",
		},
		[]string{"table"},
	)
)

func observeFlush(table string, n int, dur time.Duration) {
	recordsCommittedTotal.WithLabelValues(table).Add(float64(n))
	batchesFlushedTotal.WithLabelValues(table).Inc()
	batchFlushSeconds.WithLabelValues(table).Observe(dur.Seconds())
}
