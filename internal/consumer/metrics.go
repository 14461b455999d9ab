package consumer

import "github.com/prometheus/client_golang/prometheus"

const (
	resultHandled      = "handled"
	resultHandlerError = "handler_error"
	resultUndecodable  = "undecodable"
)

var (
	journalEventsInbound = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prosoche",
		Subsystem: "consumer",
		Name:      "journal_events_total",
		Help:      "Journal events read from Kafka, by event type and result.",
	}, []string{"event_type", "result"})

	lastEventTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "prosoche",
		Subsystem: "consumer",
		Name:      "last_event_timestamp_seconds",
		Help:      "Kafka timestamp of the latest journal event handled.",
	})

	achievementsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prosoche",
		Subsystem: "consumer",
		Name:      "achievements_awarded_total",
		Help:      "Achievements granted to journal owners, by code.",
	}, []string{"code"})
)

func init() {
	prometheus.MustRegister(journalEventsInbound, lastEventTime, achievementsAwarded)
}

func recordProcessed(msg Message) {
	journalEventsInbound.WithLabelValues(msg.EventType, resultHandled).Inc()
	if !msg.Timestamp.IsZero() {
		lastEventTime.Set(float64(msg.Timestamp.Unix()))
	}
}

func recordHandlerError(msg Message) {
	journalEventsInbound.WithLabelValues(msg.EventType, resultHandlerError).Inc()
}

// Undecodable messages have no trustworthy event type.
func recordDecodeError() {
	journalEventsInbound.WithLabelValues("unknown", resultUndecodable).Inc()
}

func recordAchievement(code string) {
	achievementsAwarded.WithLabelValues(code).Inc()
}
