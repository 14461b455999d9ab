// Package observability holds the Prometheus collectors and HTTP instrumentation of the API.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	entrySavedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prosoche",
		Subsystem: "journal",
		Name:      "last_entry_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent journal entry persisted.",
	})
	journalWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prosoche",
		Subsystem: "journal",
		Name:      "writes_total",
		Help:      "Journal writes grouped by event type.",
	}, []string{"event_type"})
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prosoche",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests grouped by route pattern, method and status code.",
	}, []string{"route", "method", "code"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prosoche",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency grouped by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

func init() {
	prometheus.MustRegister(entrySavedGauge, journalWrites, httpRequests, httpDuration)
}

// RecordEntrySaved updates the entry watermark gauge.
func RecordEntrySaved(ts time.Time) {
	if ts.IsZero() {
		return
	}
	entrySavedGauge.Set(float64(ts.Unix()))
}

// RecordJournalWrite counts a committed write that emitted eventType.
func RecordJournalWrite(eventType string) {
	journalWrites.WithLabelValues(eventType).Inc()
}
