package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capsync_runs_total",
			Help: "Total number of capability sync runs",
		},
		[]string{"mode", "source", "status"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "capsync_run_duration_seconds",
			Help: "Capability sync run duration in seconds",
		},
		[]string{"mode"},
	)

	RecordsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsync_records_updated_total",
			Help: "Total number of model capability records written",
		},
	)

	RecordsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsync_records_failed_total",
			Help: "Total number of model capability records the store rejected",
		},
	)

	LastScheduledSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "capsync_last_scheduled_sync_timestamp_seconds",
			Help: "Unix time of the last successful scheduled capability apply",
		},
	)

	ScrapeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capsync_scrape_errors_total",
			Help: "Total number of extraction errors recorded while scraping",
		},
	)
)
