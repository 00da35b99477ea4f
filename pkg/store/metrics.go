package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	saveTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "huddle_snapshot_saves_total",
		Help: "Number of successful snapshot saves.",
	})
	saveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "huddle_snapshot_save_failures_total",
		Help: "Number of failed snapshot saves.",
	})
	saveSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "huddle_snapshot_save_seconds",
		Help:    "Latency of snapshot saves, including the pebble sync.",
		Buckets: prometheus.DefBuckets,
	})
	snapshotBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "huddle_snapshot_bytes",
		Help: "Size of the most recently saved snapshot in bytes.",
	})
)
