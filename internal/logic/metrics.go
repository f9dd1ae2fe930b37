package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	linesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_log_lines_parsed_total",
		Help: "Total number of non-blank combat log lines read",
	})

	linesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_log_lines_skipped_total",
		Help: "Total number of combat log lines dropped as malformed or not damage",
	})

	missesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_log_misses_dropped_total",
		Help: "Total number of zero-damage miss lines dropped",
	})

	eventsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldps_damage_events_parsed_total",
		Help: "Total number of damage events produced by the parser",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tldps_analysis_duration_seconds",
		Help:    "Duration of a full analysis over one event set",
		Buckets: prometheus.DefBuckets,
	})

	shareCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tldps_share_cache_lookups_total",
		Help: "Share snapshot cache lookups by result",
	}, []string{"result"})
)
