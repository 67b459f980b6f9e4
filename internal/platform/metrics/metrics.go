package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nbprates"

var (
	SyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Synchronization runs by result.",
	}, []string{"result"})

	TablesInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tables_inserted_total",
		Help:      "Rate tables inserted, by table type.",
	}, []string{"table_type"})

	RatesInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rates_inserted_total",
		Help:      "Rates inserted, by table type.",
	}, []string{"table_type"})

	SyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sync_duration_seconds",
		Help:      "Duration of synchronization runs.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	ChartsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "charts_rendered_total",
		Help:      "Charts rendered, by kind and result.",
	}, []string{"kind", "result"})
)
