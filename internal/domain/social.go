package domain

import "time"

// EventKind classifies a calendar event.
type EventKind string

const (
	EventPersonal    EventKind = "personal"
	EventWork        EventKind = "trabajo"
	EventHealth      EventKind = "salud"
	EventSocial      EventKind = "social"
	EventDevelopment EventKind = "desarrollo"
	EventOther       EventKind = "otro"
)

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	switch k {
	case EventPersonal, EventWork, EventHealth, EventSocial, EventDevelopment, EventOther:
		return true
	}
	return false
}

// Event is an entry of the Kairos calendar.
type Event struct {
	ID              string
	UserID          string
	Title           string
	Description     string
	Kind            EventKind
	StartsAt        time.Time
	EndsAt          *time.Time
	AllDay          bool
	Reminder        bool
	ReminderMinutes int
	Done            bool
	Color           string
	CreatedAt       time.Time
}

// DefaultReminderMinutes applies when an event does not say otherwise.
const DefaultReminderMinutes = 15

// PlanSlot is one hour of the daily plan.
type PlanSlot struct {
	ID          string
	UserID      string
	Date        time.Time
	Hour        string
	Activity    string
	Description string
	Done        bool
}

// Relation is the kind of bond with an important person.
type Relation string

const (
	RelationFamily    Relation = "familia"
	RelationPartner   Relation = "pareja"
	RelationFriend    Relation = "amigo"
	RelationMentor    Relation = "mentor"
	RelationColleague Relation = "colega"
	RelationOther     Relation = "otro"
)

// Valid reports whether r is a known relation.
func (r Relation) Valid() bool {
	switch r {
	case RelationFamily, RelationPartner, RelationFriend, RelationMentor, RelationColleague, RelationOther:
		return true
	}
	return false
}

// Person is someone important in the user's life.
type Person struct {
	ID        string
	UserID    string
	Name      string
	Relation  Relation
	Health    int
	Notes     string
	CreatedAt time.Time
}

// Relationship health is rated 1 (bad) to 5 (excellent).
const DefaultHealth = 3

// InteractionKind classifies an interaction.
type InteractionKind string

const (
	InteractionPositive InteractionKind = "positiva"
	InteractionNegative InteractionKind = "negativa"
	InteractionNeutral  InteractionKind = "neutra"
	InteractionConflict InteractionKind = "conflicto"
	InteractionSupport  InteractionKind = "apoyo"
)

// Valid reports whether k is a known interaction kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionPositive, InteractionNegative, InteractionNeutral, InteractionConflict, InteractionSupport:
		return true
	}
	return false
}

// Interaction is a meaningful moment shared with one or more people.
type Interaction struct {
	ID          string
	UserID      string
	PersonIDs   []string
	Title       string
	Description string
	Feeling     string
	Learning    string
	Date        time.Time
	Kind        InteractionKind
}
