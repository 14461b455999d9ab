package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
)

// ListAreaScores implements domain.AreaRepository.
func (r *Repository) ListAreaScores(ctx context.Context, userID string) ([]domain.AreaScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AreaScore, 0)
	for _, s := range r.areaScores {
		if s.UserID == userID {
			s.Area = r.lifeAreas[s.Area.ID]
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Area.Name < out[j].Area.Name
	})
	return out, nil
}

// GetAreaScore implements domain.AreaRepository.
func (r *Repository) GetAreaScore(ctx context.Context, userID, id string) (*domain.AreaScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.areaScores[id]
	if !ok || s.UserID != userID {
		return nil, domain.ErrNotFound
	}
	s.Area = r.lifeAreas[s.Area.ID]
	return &s, nil
}

// UpdateAreaScore implements domain.AreaRepository.
func (r *Repository) UpdateAreaScore(ctx context.Context, score domain.AreaScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.areaScores[score.ID]
	if !ok || existing.UserID != score.UserID {
		return domain.ErrNotFound
	}
	score.Area = existing.Area
	r.areaScores[score.ID] = score
	return nil
}

// AddAreaScore implements domain.AreaRepository.
func (r *Repository) AddAreaScore(ctx context.Context, area domain.LifeArea, score domain.AreaScore) (*domain.AreaScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *domain.LifeArea
	for _, a := range r.lifeAreas {
		if a.Name == area.Name {
			a := a
			found = &a
			break
		}
	}
	if found == nil {
		r.lifeAreas[area.ID] = area
		found = &area
	} else if area.Description != "" {
		found.Description = area.Description
		r.lifeAreas[found.ID] = *found
	}

	for _, s := range r.areaScores {
		if s.UserID == score.UserID && s.Area.ID == found.ID {
			return nil, domain.ErrConflict
		}
	}
	score.Area = *found
	r.areaScores[score.ID] = score
	return &score, nil
}

// ListQuarters implements domain.AreaRepository.
func (r *Repository) ListQuarters(ctx context.Context, userID, areaScoreID string) ([]domain.Quarter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Quarter, 0)
	if s, ok := r.areaScores[areaScoreID]; !ok || s.UserID != userID {
		return out, nil
	}
	for _, q := range r.quarters {
		if q.AreaScoreID == areaScoreID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Label > out[j].Label
	})
	return out, nil
}

// SaveQuarter implements domain.AreaRepository.
func (r *Repository) SaveQuarter(ctx context.Context, userID string, quarter domain.Quarter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.areaScores[quarter.AreaScoreID]; !ok || s.UserID != userID {
		return domain.ErrNotFound
	}
	for id, q := range r.quarters {
		if q.AreaScoreID == quarter.AreaScoreID && q.Label == quarter.Label && q.Year == quarter.Year {
			quarter.ID = id
		}
	}
	r.quarters[quarter.ID] = quarter
	return nil
}

// ListExercises implements domain.ExerciseRepository.
func (r *Repository) ListExercises(ctx context.Context, userID string) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Exercise, 0)
	for _, e := range r.exercises {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// GetExercise implements domain.ExerciseRepository.
func (r *Repository) GetExercise(ctx context.Context, userID, id string) (*domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exercises[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// SaveExercise implements domain.ExerciseRepository.
func (r *Repository) SaveExercise(ctx context.Context, exercise domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.exercises[exercise.ID]; ok && existing.UserID != exercise.UserID {
		return domain.ErrNotFound
	}
	for id, e := range r.exercises {
		if id != exercise.ID && e.UserID == exercise.UserID && e.Order == exercise.Order {
			return domain.ErrConflict
		}
	}
	r.exercises[exercise.ID] = exercise
	return nil
}

// ListKnowledge implements domain.KnowledgeRepository.
func (r *Repository) ListKnowledge(ctx context.Context, userID string, filter domain.KnowledgeFilter) ([]domain.KnowledgeItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	out := make([]domain.KnowledgeItem, 0)
	for _, k := range r.knowledge {
		if k.UserID != userID {
			continue
		}
		if filter.Category != "" && k.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(k.Title), search) &&
			!strings.Contains(strings.ToLower(k.Author), search) &&
			!strings.Contains(strings.ToLower(k.Topic), search) {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

// CountKnowledge implements domain.KnowledgeRepository.
func (r *Repository) CountKnowledge(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, k := range r.knowledge {
		if k.UserID == userID {
			n++
		}
	}
	return n, nil
}

// CreateKnowledge implements domain.KnowledgeRepository.
func (r *Repository) CreateKnowledge(ctx context.Context, item domain.KnowledgeItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.knowledge[item.ID] = item
	r.stamp(item.ID)
	return nil
}

// FindTracking implements domain.VitalityRepository.
func (r *Repository) FindTracking(ctx context.Context, userID string, date time.Time) (*domain.DailyTracking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateOf(date)
	for _, t := range r.trackings {
		if t.UserID == userID && t.Date.Equal(day) {
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListTrackingsBetween implements domain.VitalityRepository.
func (r *Repository) ListTrackingsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyTracking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DailyTracking, 0)
	for _, t := range r.trackings {
		if t.UserID == userID && inRange(t.Date, from, to) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListRecentTrackings implements domain.VitalityRepository.
func (r *Repository) ListRecentTrackings(ctx context.Context, userID string, limit int) ([]domain.DailyTracking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DailyTracking, 0)
	for _, t := range r.trackings {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertTracking implements domain.VitalityRepository.
func (r *Repository) UpsertTracking(ctx context.Context, tracking domain.DailyTracking) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tracking.Date = domain.DateOf(tracking.Date)
	created := true
	for id, t := range r.trackings {
		if t.UserID == tracking.UserID && t.Date.Equal(tracking.Date) {
			tracking.ID = id
			created = false
			break
		}
	}
	r.trackings[tracking.ID] = tracking
	r.emit(events.TypeVitalityTracked, tracking.UserID, events.VitalityTracked{
		TrackingID: tracking.ID,
		UserID:     tracking.UserID,
		Date:       tracking.Date.Format(domain.DateLayout),
		Trained:    tracking.Trained,
		Created:    created,
		OccurredAt: time.Now().UTC(),
	})
	return created, nil
}

// ListTrainingWeeks implements domain.VitalityRepository.
func (r *Repository) ListTrainingWeeks(ctx context.Context, userID string, weekStart time.Time) ([]domain.TrainingWeek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateOf(weekStart)
	out := make([]domain.TrainingWeek, 0)
	for _, w := range r.training {
		if w.UserID == userID && w.WeekStart.Equal(day) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

// UpsertTrainingWeek implements domain.VitalityRepository.
func (r *Repository) UpsertTrainingWeek(ctx context.Context, week domain.TrainingWeek) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	week.WeekStart = domain.DateOf(week.WeekStart)
	for id, w := range r.training {
		if w.UserID == week.UserID && w.WeekStart.Equal(week.WeekStart) && w.Kind == week.Kind {
			week.ID = id
			week.CreatedAt = w.CreatedAt
			break
		}
	}
	r.training[week.ID] = week
	return nil
}

// ListEventsBetween implements domain.CalendarRepository.
func (r *Repository) ListEventsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Event, 0)
	for _, e := range r.calendar {
		if e.UserID == userID && !e.StartsAt.Before(from) && e.StartsAt.Before(to) {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

// ListEvents implements domain.CalendarRepository.
func (r *Repository) ListEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Event, 0)
	for _, e := range r.calendar {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortEvents(out)
	return out, nil
}

func sortEvents(events []domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].StartsAt.Before(events[j].StartsAt)
		}
		return events[i].Title < events[j].Title
	})
}

// CreateEvent implements domain.CalendarRepository.
func (r *Repository) CreateEvent(ctx context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calendar[event.ID] = event
	return nil
}

// ListPlanSlots implements domain.CalendarRepository.
func (r *Repository) ListPlanSlots(ctx context.Context, userID string, date time.Time) ([]domain.PlanSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateOf(date)
	out := make([]domain.PlanSlot, 0)
	for _, s := range r.planSlots {
		if s.UserID == userID && s.Date.Equal(day) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// UpsertPlanSlot implements domain.CalendarRepository.
func (r *Repository) UpsertPlanSlot(ctx context.Context, slot domain.PlanSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot.Date = domain.DateOf(slot.Date)
	for id, s := range r.planSlots {
		if s.UserID == slot.UserID && s.Date.Equal(slot.Date) && s.Hour == slot.Hour {
			slot.ID = id
			break
		}
	}
	r.planSlots[slot.ID] = slot
	return nil
}
