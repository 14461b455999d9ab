package domain

import (
	"context"
	"time"
)

// Repositories return ErrNotFound when a record is missing or owned by
// another user, and ErrConflict when a uniqueness rule would be broken.
// Write operations that publish events record them in the same transaction.

// JournalRepository persists the monthly journal.
type JournalRepository interface {
	GetOrCreateMonth(ctx context.Context, userID string, year, month int) (*Month, error)
	FindMonth(ctx context.Context, userID string, year, month int) (*Month, error)
	GetMonth(ctx context.Context, userID, monthID string) (*Month, error)
	UpdateMonth(ctx context.Context, month Month) error
	ListPreviousMonths(ctx context.Context, userID, excludeID string, limit int) ([]Month, error)

	ListWeeks(ctx context.Context, userID, monthID string) ([]Week, error)
	FindWeek(ctx context.Context, userID, monthID string, number int) (*Week, error)
	GetOrCreateWeek(ctx context.Context, userID, monthID string, number int) (*Week, error)
	UpdateWeek(ctx context.Context, userID string, week Week) error

	ListEntries(ctx context.Context, userID, monthID string) ([]Entry, error)
	ListEntriesBetween(ctx context.Context, userID string, from, to time.Time) ([]Entry, error)
	GetEntry(ctx context.Context, userID, entryID string) (*Entry, error)
	FindEntryByDate(ctx context.Context, userID string, date time.Time) (*Entry, error)
	SaveEntry(ctx context.Context, entry Entry) error
	DeleteEntry(ctx context.Context, userID, entryID string) error

	ListHabits(ctx context.Context, userID, monthID string) ([]Habit, error)
	CreateHabit(ctx context.Context, userID string, habit Habit) (*Habit, bool, error)
	ListHabitDays(ctx context.Context, userID, monthID string) ([]HabitDay, error)
	ToggleHabitDay(ctx context.Context, userID, habitID string, day int, at time.Time) (bool, error)

	GetOrCreateWeeklyReview(ctx context.Context, seed WeeklyReview) (*WeeklyReview, bool, error)
	SaveWeeklyReview(ctx context.Context, review WeeklyReview) error
}

// AreaRepository persists life areas and quarterly plans.
type AreaRepository interface {
	ListAreaScores(ctx context.Context, userID string) ([]AreaScore, error)
	GetAreaScore(ctx context.Context, userID, id string) (*AreaScore, error)
	UpdateAreaScore(ctx context.Context, score AreaScore) error
	AddAreaScore(ctx context.Context, area LifeArea, score AreaScore) (*AreaScore, error)
	ListQuarters(ctx context.Context, userID, areaScoreID string) ([]Quarter, error)
	SaveQuarter(ctx context.Context, userID string, quarter Quarter) error
}

// ExerciseRepository persists Areté exercises.
type ExerciseRepository interface {
	ListExercises(ctx context.Context, userID string) ([]Exercise, error)
	GetExercise(ctx context.Context, userID, id string) (*Exercise, error)
	SaveExercise(ctx context.Context, exercise Exercise) error
}

// KnowledgeRepository persists Gnosis items.
type KnowledgeRepository interface {
	ListKnowledge(ctx context.Context, userID string, filter KnowledgeFilter) ([]KnowledgeItem, error)
	CountKnowledge(ctx context.Context, userID string) (int, error)
	CreateKnowledge(ctx context.Context, item KnowledgeItem) error
}

// VitalityRepository persists health tracking and training plans.
type VitalityRepository interface {
	FindTracking(ctx context.Context, userID string, date time.Time) (*DailyTracking, error)
	ListTrackingsBetween(ctx context.Context, userID string, from, to time.Time) ([]DailyTracking, error)
	ListRecentTrackings(ctx context.Context, userID string, limit int) ([]DailyTracking, error)
	UpsertTracking(ctx context.Context, tracking DailyTracking) (bool, error)
	ListTrainingWeeks(ctx context.Context, userID string, weekStart time.Time) ([]TrainingWeek, error)
	UpsertTrainingWeek(ctx context.Context, week TrainingWeek) error
}

// CalendarRepository persists events and the daily plan.
type CalendarRepository interface {
	ListEventsBetween(ctx context.Context, userID string, from, to time.Time) ([]Event, error)
	ListEvents(ctx context.Context, userID string) ([]Event, error)
	CreateEvent(ctx context.Context, event Event) error
	ListPlanSlots(ctx context.Context, userID string, date time.Time) ([]PlanSlot, error)
	UpsertPlanSlot(ctx context.Context, slot PlanSlot) error
}

// RelationshipRepository persists people and interactions.
type RelationshipRepository interface {
	ListPeople(ctx context.Context, userID string) ([]Person, error)
	GetPerson(ctx context.Context, userID, id string) (*Person, error)
	SavePerson(ctx context.Context, person Person) error
	CountOwnedPeople(ctx context.Context, userID string, ids []string) (int, error)
	ListInteractions(ctx context.Context, userID string, limit int) ([]Interaction, error)
	ListInteractionsBetween(ctx context.Context, userID string, from, to time.Time) ([]Interaction, error)
	ListPersonInteractions(ctx context.Context, userID, personID string) ([]Interaction, error)
	GetInteraction(ctx context.Context, userID, id string) (*Interaction, error)
	SaveInteraction(ctx context.Context, interaction Interaction) error
}

// Repository is the full persistence surface used by Service.
type Repository interface {
	JournalRepository
	AreaRepository
	ExerciseRepository
	KnowledgeRepository
	VitalityRepository
	CalendarRepository
	RelationshipRepository
}
