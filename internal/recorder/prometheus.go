package recorder

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder exports download metrics.
type PrometheusRecorder struct {
	instruments *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	auxMissing  *prometheus.CounterVec
	batches     prometheus.Counter
	batchFailed prometheus.Gauge
	batchTime   prometheus.Histogram
}

// NewPrometheusRecorder registers the metrics on reg. A nil reg uses the
// default registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &PrometheusRecorder{
		instruments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcsv_instruments_total",
				Help: "Instrument downloads by outcome",
			},
			[]string{"status"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcsv_instrument_duration_seconds",
				Help:    "Time to fetch and compute one instrument",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		auxMissing: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcsv_aux_unavailable_total",
				Help: "Auxiliary sources replaced by neutral defaults",
			},
			[]string{"source"},
		),
		batches: f.NewCounter(prometheus.CounterOpts{
			Name: "stockcsv_batches_total",
			Help: "Completed batch runs",
		}),
		batchFailed: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockcsv_batch_last_failed",
			Help: "Failed instruments in the most recent batch",
		}),
		batchTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockcsv_batch_duration_seconds",
			Help:    "Wall time of batch runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// RecordInstrument counts one instrument outcome. Symbols are not used as
// labels to keep cardinality bounded.
func (r *PrometheusRecorder) RecordInstrument(_ string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.instruments.WithLabelValues(status).Inc()
	r.latency.WithLabelValues(status).Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) RecordAuxUnavailable(source string) {
	r.auxMissing.WithLabelValues(source).Inc()
}

func (r *PrometheusRecorder) RecordBatch(run BatchRun) {
	r.batches.Inc()
	r.batchFailed.Set(float64(run.Failed))
	r.batchTime.Observe(run.Elapsed.Seconds())
}
