// Package domain defines the business logic of the journal service.
package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service orchestrates journal workflows over a Repository.
type Service struct {
	repo     Repository
	now      func() time.Time
	sanitize func(string) string
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSanitizer sets the function applied to user supplied free text.
func WithSanitizer(fn func(string) string) Option {
	return func(s *Service) {
		if fn != nil {
			s.sanitize = fn
		}
	}
}

// NewService constructs a Service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
		sanitize: func(v string) string { return v },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return DateOf(s.now())
}

func (s *Service) text(v string) string {
	return strings.TrimSpace(s.sanitize(v))
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func normalizeColor(field, color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultColor, nil
	}
	if !colorPattern.MatchString(color) {
		return "", invalid(field, "must be a #rrggbb color")
	}
	return color, nil
}

// MonthView is the monthly journal screen.
type MonthView struct {
	Month       Month
	Weeks       []Week
	CurrentWeek *Week
	Entries     []Entry
	Habits      []HabitRow
	DaysInMonth int
	Previous    []Month
}

// previousMonthsLimit caps the month history shown next to a month.
const previousMonthsLimit = 6

// CurrentMonth returns the journal of the current month, creating it on first use.
func (s *Service) CurrentMonth(ctx context.Context, userID string) (*MonthView, error) {
	now := s.now()
	month, err := s.repo.GetOrCreateMonth(ctx, userID, now.Year(), int(now.Month()))
	if err != nil {
		return nil, fmt.Errorf("get or create month: %w", err)
	}
	view, err := s.monthView(ctx, userID, *month)
	if err != nil {
		return nil, err
	}
	current := WeekOfMonth(now)
	for i := range view.Weeks {
		if view.Weeks[i].Number == current {
			week := view.Weeks[i]
			view.CurrentWeek = &week
			break
		}
	}
	return view, nil
}

// MonthDetail returns the journal of an existing month.
func (s *Service) MonthDetail(ctx context.Context, userID string, year, month int) (*MonthView, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}
	m, err := s.repo.FindMonth(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return s.monthView(ctx, userID, *m)
}

func (s *Service) monthView(ctx context.Context, userID string, month Month) (*MonthView, error) {
	weeks, err := s.repo.ListWeeks(ctx, userID, month.ID)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	entries, err := s.repo.ListEntries(ctx, userID, month.ID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	habits, err := s.repo.ListHabits(ctx, userID, month.ID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	checkins, err := s.repo.ListHabitDays(ctx, userID, month.ID)
	if err != nil {
		return nil, fmt.Errorf("list habit days: %w", err)
	}
	previous, err := s.repo.ListPreviousMonths(ctx, userID, month.ID, previousMonthsLimit)
	if err != nil {
		return nil, fmt.Errorf("list previous months: %w", err)
	}

	byHabit := make(map[string][]HabitDay, len(habits))
	for _, c := range checkins {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	days := DaysInMonth(month.Year, month.Month)
	rows := make([]HabitRow, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, BuildHabitRow(h, byHabit[h.ID], days))
	}

	return &MonthView{
		Month:       month,
		Weeks:       weeks,
		Entries:     entries,
		Habits:      rows,
		DaysInMonth: days,
		Previous:    previous,
	}, nil
}

func validateYearMonth(year, month int) error {
	if year < 1 || year > 9999 {
		return invalid("year", "is out of range")
	}
	if month < 1 || month > 12 {
		return invalid("month", "must be between 1 and 12")
	}
	return nil
}

// ObjectivesPatch carries a partial update of the three objectives.
type ObjectivesPatch struct {
	Text [3]*string
	Done [3]*bool
}

func (s *Service) applyObjectives(objectives *[3]Objective, patch ObjectivesPatch) {
	for i := range objectives {
		if patch.Text[i] != nil {
			objectives[i].Text = s.text(*patch.Text[i])
		}
		if patch.Done[i] != nil {
			objectives[i].Done = *patch.Done[i]
		}
	}
}

// UpdateMonthObjectives applies a partial update to the month objectives.
func (s *Service) UpdateMonthObjectives(ctx context.Context, userID, monthID string, patch ObjectivesPatch) (*Month, error) {
	month, err := s.repo.GetMonth(ctx, userID, monthID)
	if err != nil {
		return nil, err
	}
	s.applyObjectives(&month.Objectives, patch)
	month.UpdatedAt = s.now()
	if err := s.repo.UpdateMonth(ctx, *month); err != nil {
		return nil, fmt.Errorf("update month: %w", err)
	}
	return month, nil
}

// UpdateWeekObjectives applies a partial update to an existing week of a month.
func (s *Service) UpdateWeekObjectives(ctx context.Context, userID, monthID string, number int, patch ObjectivesPatch) (*Week, error) {
	if number <= 0 {
		return nil, invalid("week", "is required")
	}
	if _, err := s.repo.GetMonth(ctx, userID, monthID); err != nil {
		return nil, err
	}
	week, err := s.repo.FindWeek(ctx, userID, monthID, number)
	if err != nil {
		return nil, err
	}
	s.applyObjectives(&week.Objectives, patch)
	if err := s.repo.UpdateWeek(ctx, userID, *week); err != nil {
		return nil, fmt.Errorf("update week: %w", err)
	}
	return week, nil
}

// SaveMonthReview replaces the end of month review.
func (s *Service) SaveMonthReview(ctx context.Context, userID, monthID string, review MonthReview) (*Month, error) {
	month, err := s.repo.GetMonth(ctx, userID, monthID)
	if err != nil {
		return nil, err
	}
	month.Review = MonthReview{
		Achievement: s.text(review.Achievement),
		Obstacle:    s.text(review.Obstacle),
		Learning:    s.text(review.Learning),
		HappyMoment: s.text(review.HappyMoment),
	}
	month.UpdatedAt = s.now()
	if err := s.repo.UpdateMonth(ctx, *month); err != nil {
		return nil, fmt.Errorf("update month: %w", err)
	}
	return month, nil
}

// SaveEntryInput is the full content of a daily page.
type SaveEntryInput struct {
	ID          string
	Date        *time.Time
	Tags        string
	Mood        int
	Intention   string
	Tasks       []Task
	Gratitude   [5]string
	Media       string
	Happiness   string
	WentWell    string
	ToImprove   string
	Reflections string
}

// SaveEntry updates the entry identified by input.ID or, without an ID, the
// entry of the given date (today by default), creating it when missing.
func (s *Service) SaveEntry(ctx context.Context, userID string, input SaveEntryInput) (*Entry, bool, error) {
	mood := input.Mood
	if mood == 0 {
		mood = DefaultMood
	}
	if err := validateMood(mood); err != nil {
		return nil, false, err
	}

	var (
		entry   *Entry
		created bool
		err     error
	)
	if input.ID != "" {
		entry, err = s.repo.GetEntry(ctx, userID, input.ID)
		if err != nil {
			return nil, false, err
		}
	} else {
		date := s.today()
		if input.Date != nil {
			date = DateOf(*input.Date)
		}
		entry, created, err = s.entryForDate(ctx, userID, date)
		if err != nil {
			return nil, false, err
		}
	}

	entry.Tags = s.text(input.Tags)
	entry.Mood = mood
	entry.Intention = s.text(input.Intention)
	entry.Tasks = s.tasks(input.Tasks)
	for i, g := range input.Gratitude {
		entry.Gratitude[i] = s.text(g)
	}
	entry.Media = s.text(input.Media)
	entry.Happiness = s.text(input.Happiness)
	entry.WentWell = s.text(input.WentWell)
	entry.ToImprove = s.text(input.ToImprove)
	entry.Reflections = s.text(input.Reflections)
	entry.UpdatedAt = s.now()

	if err := s.repo.SaveEntry(ctx, *entry); err != nil {
		return nil, false, fmt.Errorf("save entry: %w", err)
	}
	return entry, created, nil
}

func (s *Service) tasks(in []Task) []Task {
	out := make([]Task, 0, len(in))
	for _, t := range in {
		text := s.text(t.Text)
		if text == "" {
			continue
		}
		out = append(out, Task{Text: text, Done: t.Done})
	}
	return out
}

// entryForDate returns the entry of date, building an unsaved one when missing.
func (s *Service) entryForDate(ctx context.Context, userID string, date time.Time) (*Entry, bool, error) {
	existing, err := s.repo.FindEntryByDate(ctx, userID, date)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, fmt.Errorf("find entry: %w", err)
	}
	month, err := s.repo.GetOrCreateMonth(ctx, userID, date.Year(), int(date.Month()))
	if err != nil {
		return nil, false, fmt.Errorf("get or create month: %w", err)
	}
	now := s.now()
	return &Entry{
		ID:        uuid.NewString(),
		MonthID:   month.ID,
		UserID:    userID,
		Date:      date,
		Mood:      DefaultMood,
		Tasks:     []Task{},
		CreatedAt: now,
		UpdatedAt: now,
	}, true, nil
}

// AutoSaveEntryField writes one field of the entry of date, creating the
// month and the entry when needed.
func (s *Service) AutoSaveEntryField(ctx context.Context, userID string, date time.Time, field, value string) (*Entry, error) {
	if field == "" {
		return nil, invalid("campo", "is required")
	}
	scratch := Entry{}
	if IsTextField(field) {
		value = s.text(value)
	}
	if err := scratch.SetField(field, value); err != nil {
		return nil, err
	}

	entry, _, err := s.entryForDate(ctx, userID, DateOf(date))
	if err != nil {
		return nil, err
	}
	if err := entry.SetField(field, value); err != nil {
		return nil, err
	}
	entry.UpdatedAt = s.now()
	if err := s.repo.SaveEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}
	return entry, nil
}

// EntryDetail is an entry with its derived figures.
type EntryDetail struct {
	Entry             Entry
	Month             Month
	CompletedTasks    int
	TotalTasks        int
	GratitudeItems    []string
	CompletionPercent int
}

// GetEntry returns an entry of the user with its derived figures.
func (s *Service) GetEntry(ctx context.Context, userID, entryID string) (*EntryDetail, error) {
	entry, err := s.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	month, err := s.repo.GetMonth(ctx, userID, entry.MonthID)
	if err != nil {
		return nil, err
	}
	return &EntryDetail{
		Entry:             *entry,
		Month:             *month,
		CompletedTasks:    entry.CompletedTasks(),
		TotalTasks:        entry.TotalTasks(),
		GratitudeItems:    entry.GratitudeItems(),
		CompletionPercent: entry.CompletionPercent(),
	}, nil
}

// DeleteEntry removes an entry of the user.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return s.repo.DeleteEntry(ctx, userID, entryID)
}

// ToggleTask sets the done flag of one task and returns the task counters.
func (s *Service) ToggleTask(ctx context.Context, userID, entryID string, index int, done bool) (int, int, error) {
	entry, err := s.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return 0, 0, err
	}
	if index < 0 || index >= len(entry.Tasks) {
		return 0, 0, &ValidationError{Field: "tarea_index", Reason: "Índice de tarea no válido"}
	}
	entry.Tasks[index].Done = done
	entry.UpdatedAt = s.now()
	if err := s.repo.SaveEntry(ctx, *entry); err != nil {
		return 0, 0, fmt.Errorf("save entry: %w", err)
	}
	return entry.CompletedTasks(), entry.TotalTasks(), nil
}

// ListMonthEntries returns the entries of an existing month, newest first.
func (s *Service) ListMonthEntries(ctx context.Context, userID string, year, month int) (*Month, []Entry, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, nil, err
	}
	m, err := s.repo.FindMonth(ctx, userID, year, month)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.repo.ListEntries(ctx, userID, m.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}
	return m, entries, nil
}

// CreateHabit adds a habit to a month. An existing habit with the same name
// is returned unchanged with created=false.
func (s *Service) CreateHabit(ctx context.Context, userID, monthID, name, description, color string) (*Habit, bool, error) {
	name = s.text(name)
	if name == "" {
		return nil, false, invalid("nombre", "is required")
	}
	color, err := normalizeColor("color", color)
	if err != nil {
		return nil, false, err
	}
	if _, err := s.repo.GetMonth(ctx, userID, monthID); err != nil {
		return nil, false, err
	}
	habit := Habit{
		ID:          uuid.NewString(),
		MonthID:     monthID,
		Name:        name,
		Description: s.text(description),
		Color:       color,
		CreatedAt:   s.now(),
	}
	return s.repo.CreateHabit(ctx, userID, habit)
}

// ToggleHabitDay removes the check-in of day when present and records it as
// done otherwise. It returns the resulting state.
func (s *Service) ToggleHabitDay(ctx context.Context, userID, habitID string, day int) (bool, error) {
	if habitID == "" {
		return false, invalid("habito_id", "is required")
	}
	if day < 1 || day > 31 {
		return false, invalid("dia", "must be between 1 and 31")
	}
	return s.repo.ToggleHabitDay(ctx, userID, habitID, day, s.now())
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}
