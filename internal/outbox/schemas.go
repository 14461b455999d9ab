package outbox

import "example.com/prosoche/internal/events"

// journalEventSchema covers every payload published on the journal topic.
const journalEventSchema = `{
  "title": "JournalEvent",
  "anyOf": [
    {
      "type": "object",
      "title": "EntrySaved",
      "properties": {
        "entry_id": {"type": "string"},
        "user_id": {"type": "string"},
        "date": {"type": "string", "format": "date"},
        "mood": {"type": "integer"},
        "completion_percent": {"type": "integer"},
        "occurred_at": {"type": "string", "format": "date-time"}
      },
      "required": ["entry_id", "user_id", "date", "mood", "completion_percent", "occurred_at"]
    },
    {
      "type": "object",
      "title": "HabitToggled",
      "properties": {
        "habit_id": {"type": "string"},
        "user_id": {"type": "string"},
        "day": {"type": "integer"},
        "done": {"type": "boolean"},
        "occurred_at": {"type": "string", "format": "date-time"}
      },
      "required": ["habit_id", "user_id", "day", "done", "occurred_at"]
    },
    {
      "type": "object",
      "title": "VitalityTracked",
      "properties": {
        "tracking_id": {"type": "string"},
        "user_id": {"type": "string"},
        "date": {"type": "string", "format": "date"},
        "trained": {"type": "boolean"},
        "created": {"type": "boolean"},
        "occurred_at": {"type": "string", "format": "date-time"}
      },
      "required": ["tracking_id", "user_id", "date", "trained", "created", "occurred_at"]
    },
    {
      "type": "object",
      "title": "InteractionSaved",
      "properties": {
        "interaction_id": {"type": "string"},
        "user_id": {"type": "string"},
        "kind": {"type": "string"},
        "person_count": {"type": "integer"},
        "occurred_at": {"type": "string", "format": "date-time"}
      },
      "required": ["interaction_id", "user_id", "kind", "person_count", "occurred_at"]
    }
  ]
}`

// SchemaCatalogEntry maps event type to schema definition.
type SchemaCatalogEntry struct {
	Schema string
}

var schemaCatalog = map[string]SchemaCatalogEntry{
	events.TypeEntrySaved:       {Schema: journalEventSchema},
	events.TypeHabitToggled:     {Schema: journalEventSchema},
	events.TypeVitalityTracked:  {Schema: journalEventSchema},
	events.TypeInteractionSaved: {Schema: journalEventSchema},
}
