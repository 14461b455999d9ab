package outbox

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a journal event leaving the outbox.
const (
	outcomeDelivered    = "delivered"
	outcomeFailed       = "failed"
	outcomeDeadLettered = "dead_lettered"
)

// Actions taken by the DLQ manager on a dead-lettered event.
const (
	actionRequeued       = "requeued"
	actionQuarantined    = "quarantined"
	actionRetryScheduled = "retry_scheduled"
)

var (
	journalEventsOutbound = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prosoche",
		Subsystem: "outbox",
		Name:      "journal_events_total",
		Help:      "Journal events handled by the outbox dispatcher, by event type and outcome.",
	}, []string{"event_type", "outcome"})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prosoche",
		Subsystem: "outbox",
		Name:      "batch_duration_seconds",
		Help:      "Time spent delivering and marking one outbox batch.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	dlqActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prosoche",
		Subsystem: "dlq",
		Name:      "journal_events_total",
		Help:      "Dead-lettered journal events processed by the DLQ manager, by event type and action.",
	}, []string{"event_type", "action"})

	dlqBacklog = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prosoche",
		Subsystem: "dlq",
		Name:      "pending_events",
		Help:      "Dead-lettered journal events waiting for a retry.",
	})
)

func init() {
	prometheus.MustRegister(journalEventsOutbound, batchDuration, dlqActions, dlqBacklog)
}

func recordOutcome(messages []Message, outcome string) {
	for _, msg := range messages {
		journalEventsOutbound.WithLabelValues(msg.EventType, outcome).Inc()
	}
}

func recordDLQAction(entry dlqEntry, action string) {
	dlqActions.WithLabelValues(entry.EventType, action).Inc()
}

func updateBacklogGauge(ctx context.Context, pool *pgxpool.Pool) error {
	var pending int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox_dlq WHERE quarantined_at IS NULL`).Scan(&pending); err != nil {
		return err
	}
	dlqBacklog.Set(float64(pending))
	return nil
}
