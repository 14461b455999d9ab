// Package events defines the journal event payloads published to Kafka.
package events

import "time"

// Event types recorded in the outbox.
const (
	TypeEntrySaved       = "entry.saved"
	TypeHabitToggled     = "habit.toggled"
	TypeVitalityTracked  = "vires.tracked"
	TypeInteractionSaved = "interaction.saved"
)

// Topic carries every journal event.
const Topic = "journal_events"

// EntrySaved is emitted whenever a daily entry is written.
type EntrySaved struct {
	EntryID           string    `json:"entry_id"`
	UserID            string    `json:"user_id"`
	Date              string    `json:"date"`
	Mood              int       `json:"mood"`
	CompletionPercent int       `json:"completion_percent"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// HabitToggled is emitted when a habit day is marked or unmarked.
type HabitToggled struct {
	HabitID    string    `json:"habit_id"`
	UserID     string    `json:"user_id"`
	Day        int       `json:"day"`
	Done       bool      `json:"done"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VitalityTracked is emitted when a daily health tracking is stored.
type VitalityTracked struct {
	TrackingID string    `json:"tracking_id"`
	UserID     string    `json:"user_id"`
	Date       string    `json:"date"`
	Trained    bool      `json:"trained"`
	Created    bool      `json:"created"`
	OccurredAt time.Time `json:"occurred_at"`
}

// InteractionSaved is emitted when an interaction is created or updated.
type InteractionSaved struct {
	InteractionID string    `json:"interaction_id"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"`
	PersonCount   int       `json:"person_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Envelope is the generic shape consumers decode before dispatching on type.
type Envelope struct {
	Type    string
	UserID  string
	Payload []byte
}
