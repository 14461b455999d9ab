package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// recentTrackingsLimit is the number of trackings shown in the overview.
const recentTrackingsLimit = 7

// VitalityOverview is the Vires screen.
type VitalityOverview struct {
	Date          time.Time
	WeekStart     time.Time
	Today         *DailyTracking
	TodayWorkout  []WorkoutExercise
	TrainingWeeks []TrainingWeek
	Recent        []DailyTracking
}

// VitalityOverview returns today's tracking, this week's training plans and
// the latest trackings.
func (s *Service) VitalityOverview(ctx context.Context, userID string) (*VitalityOverview, error) {
	today := s.today()
	out := &VitalityOverview{Date: today, WeekStart: WeekStart(today), TodayWorkout: []WorkoutExercise{}}

	tracking, err := s.repo.FindTracking(ctx, userID, today)
	switch {
	case err == nil:
		out.Today = tracking
		out.TodayWorkout = ParseWorkoutNotes(tracking.WorkoutNotes)
	case !isNotFound(err):
		return nil, fmt.Errorf("find tracking: %w", err)
	}

	if out.TrainingWeeks, err = s.repo.ListTrainingWeeks(ctx, userID, out.WeekStart); err != nil {
		return nil, fmt.Errorf("list training weeks: %w", err)
	}
	if out.Recent, err = s.repo.ListRecentTrackings(ctx, userID, recentTrackingsLimit); err != nil {
		return nil, fmt.Errorf("list recent trackings: %w", err)
	}
	return out, nil
}

// SaveTracking creates or replaces the tracking of a day (today when the date
// is zero). It reports whether a new record was created.
func (s *Service) SaveTracking(ctx context.Context, userID string, t DailyTracking) (*DailyTracking, bool, error) {
	if t.Date.IsZero() {
		t.Date = s.today()
	}
	t.Date = DateOf(t.Date)
	if err := t.Validate(); err != nil {
		return nil, false, err
	}
	t.UserID = userID
	t.Notes = s.text(t.Notes)
	t.WorkoutNotes = s.text(t.WorkoutNotes)
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	created, err := s.repo.UpsertTracking(ctx, t)
	if err != nil {
		return nil, false, fmt.Errorf("upsert tracking: %w", err)
	}
	if !created {
		if stored, err := s.repo.FindTracking(ctx, userID, t.Date); err == nil {
			return stored, false, nil
		}
	}
	return &t, created, nil
}

// SaveTrainingWeek creates or replaces the plan of one kind for a week.
func (s *Service) SaveTrainingWeek(ctx context.Context, userID string, w TrainingWeek) (*TrainingWeek, error) {
	if !w.Kind.Valid() {
		return nil, invalid("tipo", "is not a known training kind")
	}
	if w.WeekStart.IsZero() {
		w.WeekStart = s.today()
	}
	w.WeekStart = WeekStart(w.WeekStart)
	w.UserID = userID
	for i := range w.Days {
		w.Days[i] = s.text(w.Days[i])
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = s.now()
	}
	if err := s.repo.UpsertTrainingWeek(ctx, w); err != nil {
		return nil, fmt.Errorf("upsert training week: %w", err)
	}
	return &w, nil
}

// CalendarView lists the events of a month and of today.
type CalendarView struct {
	Year   int
	Month  int
	Events []Event
	Today  []Event
}

// CalendarMonth returns the events starting in the given month, ordered by start.
func (s *Service) CalendarMonth(ctx context.Context, userID string, year, month int) (*CalendarView, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	events, err := s.repo.ListEventsBetween(ctx, userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("list month events: %w", err)
	}
	today := s.today()
	todays, err := s.repo.ListEventsBetween(ctx, userID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list today events: %w", err)
	}
	return &CalendarView{Year: year, Month: month, Events: events, Today: todays}, nil
}

// CreateEvent adds a calendar event.
func (s *Service) CreateEvent(ctx context.Context, userID string, e Event) (*Event, error) {
	e.Title = s.text(e.Title)
	if e.Title == "" {
		return nil, invalid("titulo", "is required")
	}
	if e.StartsAt.IsZero() {
		return nil, invalid("fecha_inicio", "is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return nil, invalid("fecha_fin", "must not be before the start")
	}
	if e.Kind == "" {
		e.Kind = EventPersonal
	}
	if !e.Kind.Valid() {
		return nil, invalid("tipo", "is not a known event kind")
	}
	color, err := normalizeColor("color", e.Color)
	if err != nil {
		return nil, err
	}
	if e.ReminderMinutes == 0 {
		e.ReminderMinutes = DefaultReminderMinutes
	}
	if e.ReminderMinutes < 0 {
		return nil, invalid("minutos_recordatorio", "must be positive")
	}
	e.ID = uuid.NewString()
	e.UserID = userID
	e.Color = color
	e.Description = s.text(e.Description)
	e.StartsAt = e.StartsAt.UTC()
	if e.EndsAt != nil {
		end := e.EndsAt.UTC()
		e.EndsAt = &end
	}
	e.CreatedAt = s.now()
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

// EventFeed returns every event of the user for calendar widgets.
func (s *Service) EventFeed(ctx context.Context, userID string) ([]Event, error) {
	events, err := s.repo.ListEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

var hourPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// SavePlanSlot creates or replaces one hour of a daily plan.
func (s *Service) SavePlanSlot(ctx context.Context, userID string, slot PlanSlot) (*PlanSlot, error) {
	slot.Hour = strings.TrimSpace(slot.Hour)
	if !hourPattern.MatchString(slot.Hour) {
		return nil, invalid("hora", "must be HH:MM")
	}
	if slot.Date.IsZero() {
		slot.Date = s.today()
	}
	slot.Date = DateOf(slot.Date)
	slot.UserID = userID
	slot.Activity = s.text(slot.Activity)
	slot.Description = s.text(slot.Description)
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if err := s.repo.UpsertPlanSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("upsert plan slot: %w", err)
	}
	return &slot, nil
}

// DayPlan returns the plan of a day ordered by hour.
func (s *Service) DayPlan(ctx context.Context, userID string, date time.Time) ([]PlanSlot, error) {
	if date.IsZero() {
		date = s.today()
	}
	slots, err := s.repo.ListPlanSlots(ctx, userID, DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("list plan slots: %w", err)
	}
	return slots, nil
}
