package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"example.com/prosoche/internal/events"
)

// Achievement codes awarded from the journal event stream.
const (
	AchievementFirstEntry   = "primera_entrada"
	AchievementSevenEntries = "constancia_7"
	AchievementHabitStreak  = "habito_constante"
	AchievementActiveBody   = "cuerpo_activo"
	AchievementSupportNet   = "red_de_apoyo"
)

// Store persists consumed events and awarded achievements.
type Store interface {
	// LogEvent records msg and reports false when it was already logged.
	LogEvent(ctx context.Context, msg Message) (bool, error)
	// CountEvents counts logged events of eventType for a user, narrowed by filter.
	CountEvents(ctx context.Context, userID, eventType string, filter CountFilter) (int, error)
	// Award grants code to the user and reports false when already held.
	Award(ctx context.Context, userID, code string, at time.Time) (bool, error)
}

// CountFilter narrows CountEvents. With DistinctBy set, events whose payloads
// agree on all of those keys count once. DoneOnly keeps payloads with
// "done": true.
type CountFilter struct {
	DistinctBy []string
	DoneOnly   bool
}

type achievementRule struct {
	code      string
	eventType string
	threshold int
	filter    CountFilter
}

// Repeated saves of one entry, habit cell or interaction count once.
var achievementRules = []achievementRule{
	{code: AchievementFirstEntry, eventType: events.TypeEntrySaved, threshold: 1},
	{code: AchievementSevenEntries, eventType: events.TypeEntrySaved, threshold: 7,
		filter: CountFilter{DistinctBy: []string{"date"}}},
	{code: AchievementHabitStreak, eventType: events.TypeHabitToggled, threshold: 30,
		filter: CountFilter{DistinctBy: []string{"habit_id", "day"}, DoneOnly: true}},
	{code: AchievementActiveBody, eventType: events.TypeVitalityTracked, threshold: 1},
	{code: AchievementSupportNet, eventType: events.TypeInteractionSaved, threshold: 5,
		filter: CountFilter{DistinctBy: []string{"interaction_id"}}},
}

// AchievementHandler logs every journal event and awards achievements once
// their thresholds are reached.
type AchievementHandler struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewAchievementHandler builds a handler over store.
func NewAchievementHandler(store Store, logger *zap.Logger) *AchievementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AchievementHandler{store: store, logger: logger, now: time.Now}
}

// Handle implements Handler.
func (h *AchievementHandler) Handle(ctx context.Context, msg Message) error {
	if msg.UserID == "" {
		var body struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		msg.UserID = body.UserID
	}
	if msg.UserID == "" {
		return errors.New("message has no user")
	}

	fresh, err := h.store.LogEvent(ctx, msg)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	if !fresh {
		return nil
	}

	for _, rule := range achievementRules {
		if rule.eventType != msg.EventType {
			continue
		}
		count, err := h.store.CountEvents(ctx, msg.UserID, rule.eventType, rule.filter)
		if err != nil {
			return fmt.Errorf("count %s: %w", rule.eventType, err)
		}
		if count < rule.threshold {
			continue
		}
		awarded, err := h.store.Award(ctx, msg.UserID, rule.code, h.now().UTC())
		if err != nil {
			return fmt.Errorf("award %s: %w", rule.code, err)
		}
		if awarded {
			recordAchievement(rule.code)
			h.logger.Info("achievement awarded", zap.String("user_id", msg.UserID), zap.String("code", rule.code))
		}
	}
	return nil
}
