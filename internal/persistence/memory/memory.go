// Package memory provides an in-memory domain.Repository for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
)

// RecordedEvent is an event that the Postgres repository would have written
// to the outbox.
type RecordedEvent struct {
	Type    string
	UserID  string
	Payload interface{}
}

// Repository stores every journal record in maps guarded by one lock.
type Repository struct {
	mu sync.RWMutex

	months       map[string]domain.Month
	weeks        map[string]domain.Week
	entries      map[string]domain.Entry
	habits       map[string]domain.Habit
	habitDays    map[string]map[int]domain.HabitDay
	reviews      map[string]domain.WeeklyReview
	lifeAreas    map[string]domain.LifeArea
	areaScores   map[string]domain.AreaScore
	quarters     map[string]domain.Quarter
	exercises    map[string]domain.Exercise
	knowledge    map[string]domain.KnowledgeItem
	trackings    map[string]domain.DailyTracking
	training     map[string]domain.TrainingWeek
	calendar     map[string]domain.Event
	planSlots    map[string]domain.PlanSlot
	people       map[string]domain.Person
	interactions map[string]domain.Interaction
	seq          map[string]int
	next         int

	events []RecordedEvent
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		months:       make(map[string]domain.Month),
		weeks:        make(map[string]domain.Week),
		entries:      make(map[string]domain.Entry),
		habits:       make(map[string]domain.Habit),
		habitDays:    make(map[string]map[int]domain.HabitDay),
		reviews:      make(map[string]domain.WeeklyReview),
		lifeAreas:    make(map[string]domain.LifeArea),
		areaScores:   make(map[string]domain.AreaScore),
		quarters:     make(map[string]domain.Quarter),
		exercises:    make(map[string]domain.Exercise),
		knowledge:    make(map[string]domain.KnowledgeItem),
		trackings:    make(map[string]domain.DailyTracking),
		training:     make(map[string]domain.TrainingWeek),
		calendar:     make(map[string]domain.Event),
		planSlots:    make(map[string]domain.PlanSlot),
		people:       make(map[string]domain.Person),
		interactions: make(map[string]domain.Interaction),
		seq:          make(map[string]int),
	}
}

var _ domain.Repository = (*Repository)(nil)

// Events returns a copy of the events recorded so far.
func (r *Repository) Events() []RecordedEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RecordedEvent(nil), r.events...)
}

func (r *Repository) emit(eventType, userID string, payload interface{}) {
	r.events = append(r.events, RecordedEvent{Type: eventType, UserID: userID, Payload: payload})
}

// stamp records insertion order for stable sorting of equal keys.
func (r *Repository) stamp(id string) {
	if _, ok := r.seq[id]; !ok {
		r.next++
		r.seq[id] = r.next
	}
}

// GetOrCreateMonth implements domain.JournalRepository.
func (r *Repository) GetOrCreateMonth(ctx context.Context, userID string, year, month int) (*domain.Month, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.findMonth(userID, year, month); ok {
		return &m, nil
	}
	now := time.Now().UTC()
	m := domain.Month{ID: uuid.NewString(), UserID: userID, Year: year, Month: month, CreatedAt: now, UpdatedAt: now}
	r.months[m.ID] = m
	return &m, nil
}

func (r *Repository) findMonth(userID string, year, month int) (domain.Month, bool) {
	for _, m := range r.months {
		if m.UserID == userID && m.Year == year && m.Month == month {
			return m, true
		}
	}
	return domain.Month{}, false
}

// FindMonth implements domain.JournalRepository.
func (r *Repository) FindMonth(ctx context.Context, userID string, year, month int) (*domain.Month, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.findMonth(userID, year, month)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// GetMonth implements domain.JournalRepository.
func (r *Repository) GetMonth(ctx context.Context, userID, monthID string) (*domain.Month, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.months[monthID]
	if !ok || m.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// UpdateMonth implements domain.JournalRepository.
func (r *Repository) UpdateMonth(ctx context.Context, month domain.Month) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.months[month.ID]
	if !ok || existing.UserID != month.UserID {
		return domain.ErrNotFound
	}
	r.months[month.ID] = month
	return nil
}

// ListPreviousMonths implements domain.JournalRepository.
func (r *Repository) ListPreviousMonths(ctx context.Context, userID, excludeID string, limit int) ([]domain.Month, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Month, 0)
	for _, m := range r.months {
		if m.UserID == userID && m.ID != excludeID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repository) ownsMonth(userID, monthID string) bool {
	m, ok := r.months[monthID]
	return ok && m.UserID == userID
}

// ListWeeks implements domain.JournalRepository.
func (r *Repository) ListWeeks(ctx context.Context, userID, monthID string) ([]domain.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Week, 0)
	if !r.ownsMonth(userID, monthID) {
		return out, nil
	}
	for _, w := range r.weeks {
		if w.MonthID == monthID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *Repository) findWeek(monthID string, number int) (domain.Week, bool) {
	for _, w := range r.weeks {
		if w.MonthID == monthID && w.Number == number {
			return w, true
		}
	}
	return domain.Week{}, false
}

// FindWeek implements domain.JournalRepository.
func (r *Repository) FindWeek(ctx context.Context, userID, monthID string, number int) (*domain.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ownsMonth(userID, monthID) {
		return nil, domain.ErrNotFound
	}
	w, ok := r.findWeek(monthID, number)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

// GetOrCreateWeek implements domain.JournalRepository.
func (r *Repository) GetOrCreateWeek(ctx context.Context, userID, monthID string, number int) (*domain.Week, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownsMonth(userID, monthID) {
		return nil, domain.ErrNotFound
	}
	if w, ok := r.findWeek(monthID, number); ok {
		return &w, nil
	}
	w := domain.Week{ID: uuid.NewString(), MonthID: monthID, Number: number}
	r.weeks[w.ID] = w
	return &w, nil
}

// UpdateWeek implements domain.JournalRepository.
func (r *Repository) UpdateWeek(ctx context.Context, userID string, week domain.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.weeks[week.ID]
	if !ok || !r.ownsMonth(userID, existing.MonthID) {
		return domain.ErrNotFound
	}
	r.weeks[week.ID] = week
	return nil
}

func copyEntry(e domain.Entry) domain.Entry {
	e.Tasks = append([]domain.Task{}, e.Tasks...)
	return e
}

// ListEntries implements domain.JournalRepository.
func (r *Repository) ListEntries(ctx context.Context, userID, monthID string) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Entry, 0)
	for _, e := range r.entries {
		if e.UserID == userID && e.MonthID == monthID {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ListEntriesBetween implements domain.JournalRepository.
func (r *Repository) ListEntriesBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Entry, 0)
	for _, e := range r.entries {
		if e.UserID == userID && inRange(e.Date, from, to) {
			out = append(out, copyEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func inRange(day, from, to time.Time) bool {
	day = domain.DateOf(day)
	return !day.Before(domain.DateOf(from)) && !day.After(domain.DateOf(to))
}

// GetEntry implements domain.JournalRepository.
func (r *Repository) GetEntry(ctx context.Context, userID, entryID string) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return nil, domain.ErrNotFound
	}
	e = copyEntry(e)
	return &e, nil
}

// FindEntryByDate implements domain.JournalRepository.
func (r *Repository) FindEntryByDate(ctx context.Context, userID string, date time.Time) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := domain.DateOf(date)
	for _, e := range r.entries {
		if e.UserID == userID && e.Date.Equal(day) {
			e = copyEntry(e)
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SaveEntry implements domain.JournalRepository.
func (r *Repository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownsMonth(entry.UserID, entry.MonthID) {
		return domain.ErrNotFound
	}
	entry.Date = domain.DateOf(entry.Date)
	for id, e := range r.entries {
		if id != entry.ID && e.MonthID == entry.MonthID && e.Date.Equal(entry.Date) {
			return domain.ErrConflict
		}
	}
	r.entries[entry.ID] = copyEntry(entry)
	r.emit(events.TypeEntrySaved, entry.UserID, events.EntrySaved{
		EntryID:           entry.ID,
		UserID:            entry.UserID,
		Date:              entry.Date.Format(domain.DateLayout),
		Mood:              entry.Mood,
		CompletionPercent: entry.CompletionPercent(),
		OccurredAt:        entry.UpdatedAt,
	})
	return nil
}

// DeleteEntry implements domain.JournalRepository.
func (r *Repository) DeleteEntry(ctx context.Context, userID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[entryID]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.entries, entryID)
	return nil
}

// ListHabits implements domain.JournalRepository.
func (r *Repository) ListHabits(ctx context.Context, userID, monthID string) ([]domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Habit, 0)
	if !r.ownsMonth(userID, monthID) {
		return out, nil
	}
	for _, h := range r.habits {
		if h.MonthID == monthID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

// CreateHabit implements domain.JournalRepository.
func (r *Repository) CreateHabit(ctx context.Context, userID string, habit domain.Habit) (*domain.Habit, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownsMonth(userID, habit.MonthID) {
		return nil, false, domain.ErrNotFound
	}
	for _, h := range r.habits {
		if h.MonthID == habit.MonthID && h.Name == habit.Name {
			return &h, false, nil
		}
	}
	r.habits[habit.ID] = habit
	r.stamp(habit.ID)
	return &habit, true, nil
}

// ListHabitDays implements domain.JournalRepository.
func (r *Repository) ListHabitDays(ctx context.Context, userID, monthID string) ([]domain.HabitDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.HabitDay, 0)
	if !r.ownsMonth(userID, monthID) {
		return out, nil
	}
	for id, h := range r.habits {
		if h.MonthID != monthID {
			continue
		}
		for _, d := range r.habitDays[id] {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HabitID != out[j].HabitID {
			return out[i].HabitID < out[j].HabitID
		}
		return out[i].Day < out[j].Day
	})
	return out, nil
}

// ToggleHabitDay implements domain.JournalRepository.
func (r *Repository) ToggleHabitDay(ctx context.Context, userID, habitID string, day int, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.habits[habitID]
	if !ok || !r.ownsMonth(userID, h.MonthID) {
		return false, domain.ErrNotFound
	}
	days := r.habitDays[habitID]
	if days == nil {
		days = make(map[int]domain.HabitDay)
		r.habitDays[habitID] = days
	}
	done := true
	if _, exists := days[day]; exists {
		delete(days, day)
		done = false
	} else {
		days[day] = domain.HabitDay{HabitID: habitID, Day: day, Done: true, UpdatedAt: at}
	}
	r.emit(events.TypeHabitToggled, userID, events.HabitToggled{
		HabitID:    habitID,
		UserID:     userID,
		Day:        day,
		Done:       done,
		OccurredAt: at,
	})
	return done, nil
}

// GetOrCreateWeeklyReview implements domain.JournalRepository.
func (r *Repository) GetOrCreateWeeklyReview(ctx context.Context, seed domain.WeeklyReview) (*domain.WeeklyReview, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.weeks[seed.WeekID]
	if !ok || !r.ownsMonth(seed.UserID, w.MonthID) {
		return nil, false, domain.ErrNotFound
	}
	for _, rv := range r.reviews {
		if rv.WeekID == seed.WeekID {
			return &rv, false, nil
		}
	}
	r.reviews[seed.ID] = seed
	return &seed, true, nil
}

// SaveWeeklyReview implements domain.JournalRepository.
func (r *Repository) SaveWeeklyReview(ctx context.Context, review domain.WeeklyReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.reviews[review.ID]
	if !ok || existing.UserID != review.UserID {
		return domain.ErrNotFound
	}
	r.reviews[review.ID] = review
	return nil
}
