package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type DispatchMetrics struct {
	DispatchTotal *prometheus.CounterVec
	BulkDuration  *prometheus.HistogramVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emi_genie_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Dispatch = DispatchMetrics{
		DispatchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emi_genie_dispatch_total",
				Help: "Total number of notification dispatches by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		BulkDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emi_genie_bulk_dispatch_duration_seconds",
				Help:    "Histogram of bulk dispatch sweep durations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"policy"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordDispatch(kind, outcome string) {
	Dispatch.DispatchTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordBulkDispatch(policy string, duration time.Duration) {
	Dispatch.BulkDuration.WithLabelValues(policy).Observe(duration.Seconds())
}
