package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/prosoche/internal/events"
)

type logKey struct {
	topic     string
	partition int
	offset    int64
}

type memoryStore struct {
	mu     sync.Mutex
	logged map[logKey]Message
	awards map[string][]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{logged: map[logKey]Message{}, awards: map[string][]string{}}
}

func (s *memoryStore) LogEvent(_ context.Context, msg Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := logKey{msg.Topic, msg.Partition, msg.Offset}
	if _, ok := s.logged[key]; ok {
		return false, nil
	}
	s.logged[key] = msg
	return true, nil
}

func (s *memoryStore) CountEvents(_ context.Context, userID, eventType string, filter CountFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	count := 0
	for _, msg := range s.logged {
		if msg.UserID != userID || msg.EventType != eventType {
			continue
		}
		var body map[string]interface{}
		if err := json.Unmarshal(msg.Payload, &body); err != nil {
			continue
		}
		if filter.DoneOnly && body["done"] != true {
			continue
		}
		if len(filter.DistinctBy) > 0 {
			parts := make([]string, 0, len(filter.DistinctBy))
			for _, key := range filter.DistinctBy {
				if v, ok := body[key]; ok {
					parts = append(parts, fmt.Sprint(v))
				}
			}
			identity := strings.Join(parts, ":")
			if seen[identity] {
				continue
			}
			seen[identity] = true
		}
		count++
	}
	return count, nil
}

func (s *memoryStore) Award(_ context.Context, userID, code string, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, held := range s.awards[userID] {
		if held == code {
			return false, nil
		}
	}
	s.awards[userID] = append(s.awards[userID], code)
	return true, nil
}

type feeder struct {
	handler *AchievementHandler
	offset  int64
}

func (f *feeder) send(t *testing.T, eventType, userID, payload string) {
	t.Helper()
	f.offset++
	msg := Message{Topic: events.Topic, Offset: f.offset, EventType: eventType, UserID: userID, Payload: json.RawMessage(payload)}
	require.NoError(t, f.handler.Handle(context.Background(), msg))
}

func entryPayload(day int) string {
	return fmt.Sprintf(`{"entry_id":"e%d","date":"2025-03-%02d"}`, day, day)
}

func TestAchievementHandlerAwardsEntryMilestones(t *testing.T) {
	store := newMemoryStore()
	f := &feeder{handler: NewAchievementHandler(store, nil)}

	f.send(t, events.TypeEntrySaved, "u1", entryPayload(1))
	assert.Equal(t, []string{AchievementFirstEntry}, store.awards["u1"])

	for day := 2; day <= 6; day++ {
		f.send(t, events.TypeEntrySaved, "u1", entryPayload(day))
	}
	assert.Equal(t, []string{AchievementFirstEntry}, store.awards["u1"])

	f.send(t, events.TypeEntrySaved, "u1", entryPayload(7))
	assert.Equal(t, []string{AchievementFirstEntry, AchievementSevenEntries}, store.awards["u1"])

	f.send(t, events.TypeEntrySaved, "u1", entryPayload(8))
	assert.Len(t, store.awards["u1"], 2)
	assert.Empty(t, store.awards["u2"])
}

func TestAchievementHandlerCountsEachEntryDayOnce(t *testing.T) {
	store := newMemoryStore()
	f := &feeder{handler: NewAchievementHandler(store, nil)}

	for i := 0; i < 10; i++ {
		f.send(t, events.TypeEntrySaved, "u1", entryPayload(1))
	}
	assert.Equal(t, []string{AchievementFirstEntry}, store.awards["u1"])
}

func habitPayload(habit string, day int, done bool) string {
	return fmt.Sprintf(`{"habit_id":%q,"day":%d,"done":%t}`, habit, day, done)
}

func TestAchievementHandlerCountsOnlyHabitMarks(t *testing.T) {
	store := newMemoryStore()
	f := &feeder{handler: NewAchievementHandler(store, nil)}

	for day := 1; day <= 29; day++ {
		f.send(t, events.TypeHabitToggled, "u1", habitPayload("h1", day, true))
		f.send(t, events.TypeHabitToggled, "u1", habitPayload("h2", day, false))
	}
	assert.Empty(t, store.awards["u1"])

	f.send(t, events.TypeHabitToggled, "u1", habitPayload("h2", 1, true))
	assert.Equal(t, []string{AchievementHabitStreak}, store.awards["u1"])
}

func TestAchievementHandlerCountsEachHabitDayOnce(t *testing.T) {
	store := newMemoryStore()
	f := &feeder{handler: NewAchievementHandler(store, nil)}

	for i := 0; i < 30; i++ {
		f.send(t, events.TypeHabitToggled, "u1", habitPayload("h1", 1, true))
		f.send(t, events.TypeHabitToggled, "u1", habitPayload("h1", 1, false))
	}
	assert.Empty(t, store.awards["u1"])
}

func TestAchievementHandlerAwardsVitalityAndSupportNetwork(t *testing.T) {
	store := newMemoryStore()
	f := &feeder{handler: NewAchievementHandler(store, nil)}

	f.send(t, events.TypeVitalityTracked, "u1", `{"trained":true}`)
	for i := 0; i < 6; i++ {
		f.send(t, events.TypeInteractionSaved, "u1", `{"interaction_id":"i0"}`)
	}
	assert.Equal(t, []string{AchievementActiveBody}, store.awards["u1"])

	for i := 0; i < 5; i++ {
		f.send(t, events.TypeInteractionSaved, "u1", fmt.Sprintf(`{"interaction_id":"i%d"}`, i))
	}
	assert.Equal(t, []string{AchievementActiveBody, AchievementSupportNet}, store.awards["u1"])
}

func TestAchievementHandlerIgnoresRedeliveries(t *testing.T) {
	store := newMemoryStore()
	handler := NewAchievementHandler(store, nil)
	msg := Message{Topic: events.Topic, Offset: 1, EventType: events.TypeInteractionSaved, UserID: "u1", Payload: json.RawMessage(`{}`)}

	for i := 0; i < 5; i++ {
		require.NoError(t, handler.Handle(context.Background(), msg))
	}
	count, err := store.CountEvents(context.Background(), "u1", events.TypeInteractionSaved, CountFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, store.awards["u1"])
}

func TestAchievementHandlerFallsBackToPayloadUser(t *testing.T) {
	store := newMemoryStore()
	handler := NewAchievementHandler(store, nil)

	msg := Message{Topic: events.Topic, Offset: 1, EventType: events.TypeEntrySaved, Payload: json.RawMessage(`{"user_id":"u9"}`)}
	require.NoError(t, handler.Handle(context.Background(), msg))
	assert.Equal(t, []string{AchievementFirstEntry}, store.awards["u9"])

	msg = Message{Topic: events.Topic, Offset: 2, EventType: events.TypeEntrySaved, Payload: json.RawMessage(`{}`)}
	assert.Error(t, handler.Handle(context.Background(), msg))
}
