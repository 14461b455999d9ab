package domain_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
	"example.com/prosoche/internal/persistence/memory"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T) (*domain.Service, *memory.Repository, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)}
	repo := memory.NewRepository()
	stripBold := func(s string) string { return strings.NewReplacer("<b>", "", "</b>", "").Replace(s) }
	return domain.NewService(repo, domain.WithClock(c.Now), domain.WithSanitizer(stripBold)), repo, c
}

func date(t *testing.T, value string) *time.Time {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return &d
}

func TestSaveEntryCreatesThenUpdatesTheDay(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(t)

	entry, created, err := svc.SaveEntry(ctx, "u1", domain.SaveEntryInput{
		Intention: "  <b>serena</b> ",
		Tasks:     []domain.Task{{Text: "leer"}, {Text: "   "}},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "serena", entry.Intention)
	assert.Equal(t, domain.DefaultMood, entry.Mood)
	assert.Len(t, entry.Tasks, 1)
	assert.Equal(t, "2025-03-12", entry.Date.Format(domain.DateLayout))

	again, created, err := svc.SaveEntry(ctx, "u1", domain.SaveEntryInput{Date: date(t, "2025-03-12"), Mood: 5})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entry.ID, again.ID)
	assert.Empty(t, again.Tasks)

	_, _, err = svc.SaveEntry(ctx, "u1", domain.SaveEntryInput{Mood: 7})
	assert.True(t, domain.IsValidation(err))

	_, _, err = svc.SaveEntry(ctx, "u2", domain.SaveEntryInput{ID: entry.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	recorded := repo.Events()
	require.Len(t, recorded, 2)
	assert.Equal(t, events.TypeEntrySaved, recorded[1].Type)
	payload, ok := recorded[1].Payload.(events.EntrySaved)
	require.True(t, ok)
	assert.Equal(t, 5, payload.Mood)
}

func TestAutoSaveEntryField(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(t)

	_, err := svc.AutoSaveEntryField(ctx, "u1", *date(t, "2025-02-20"), "user_id", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no válido")
	assert.Empty(t, repo.Events())
	_, err = repo.FindMonth(ctx, "u1", 2025, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entry, err := svc.AutoSaveEntryField(ctx, "u1", *date(t, "2025-02-20"), "gratitud_3", "<b>mar</b>")
	require.NoError(t, err)
	assert.Equal(t, "mar", entry.Gratitude[2])

	entry, err = svc.AutoSaveEntryField(ctx, "u1", *date(t, "2025-02-20"), domain.FieldMood, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Mood)
	assert.Equal(t, "mar", entry.Gratitude[2])

	month, entries, err := svc.ListMonthEntries(ctx, "u1", 2025, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, month.Month)
	assert.Len(t, entries, 1)
}

func TestCurrentMonthListsPreviousMonths(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	for _, d := range []string{"2025-01-05", "2024-12-24", "2025-02-01"} {
		_, _, err := svc.SaveEntry(ctx, "u1", domain.SaveEntryInput{Date: date(t, d)})
		require.NoError(t, err)
	}
	_, _, err := svc.SaveEntry(ctx, "u2", domain.SaveEntryInput{Date: date(t, "2025-01-10")})
	require.NoError(t, err)

	view, err := svc.CurrentMonth(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, view.Month.Month)
	assert.Equal(t, 31, view.DaysInMonth)
	assert.Nil(t, view.CurrentWeek)
	require.Len(t, view.Previous, 3)
	assert.Equal(t, 2, view.Previous[0].Month)
	assert.Equal(t, 1, view.Previous[1].Month)
	assert.Equal(t, 2024, view.Previous[2].Year)

	_, err = svc.MonthDetail(ctx, "u1", 2025, 0)
	assert.True(t, domain.IsValidation(err))
	_, err = svc.MonthDetail(ctx, "u1", 2023, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHabitsToggleAndDeduplicate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(t)

	view, err := svc.CurrentMonth(ctx, "u1")
	require.NoError(t, err)

	habit, created, err := svc.CreateHabit(ctx, "u1", view.Month.ID, "Leer", "", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.DefaultColor, habit.Color)

	_, created, err = svc.CreateHabit(ctx, "u1", view.Month.ID, "Leer", "otra", "#123456")
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = svc.CreateHabit(ctx, "u1", view.Month.ID, "Correr", "", "rojo")
	assert.True(t, domain.IsValidation(err))
	_, _, err = svc.CreateHabit(ctx, "u2", view.Month.ID, "Correr", "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	done, err := svc.ToggleHabitDay(ctx, "u1", habit.ID, 12)
	require.NoError(t, err)
	assert.True(t, done)
	done, err = svc.ToggleHabitDay(ctx, "u1", habit.ID, 12)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = svc.ToggleHabitDay(ctx, "u2", habit.ID, 12)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var toggles []events.HabitToggled
	for _, e := range repo.Events() {
		if p, ok := e.Payload.(events.HabitToggled); ok {
			toggles = append(toggles, p)
		}
	}
	require.Len(t, toggles, 2)
	assert.True(t, toggles[0].Done)
	assert.False(t, toggles[1].Done)
}

func TestWeeklyReviewWithoutJournal(t *testing.T) {
	svc, _, _ := newService(t)

	view, err := svc.WeeklyReview(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", view.From.Format(domain.DateLayout))
	assert.Equal(t, "2025-03-09", view.To.Format(domain.DateLayout))
	assert.Nil(t, view.Review)
	assert.Nil(t, view.CurrentWeek)
	assert.Nil(t, view.Summary.MoodAverage)

	saved, err := svc.SaveWeeklyReview(context.Background(), "u1", domain.WeeklyReviewInput{Achievement: "x"})
	require.NoError(t, err)
	assert.Nil(t, saved.Review)
}

func TestSaveWeeklyReviewUpdatesRecordAndNextObjectives(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, _, err := svc.SaveEntry(ctx, "u1", domain.SaveEntryInput{Date: date(t, "2025-03-04"), WentWell: "foco"})
	require.NoError(t, err)

	first, err := svc.WeeklyReview(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, first.Review)
	assert.Equal(t, " - foco", first.Review.Achievement)
	assert.Equal(t, " - ", first.Review.Learning)

	saved, err := svc.SaveWeeklyReview(ctx, "u1", domain.WeeklyReviewInput{
		Achievement:    "constancia",
		NextObjectives: [3]string{"dormir", "<b>leer</b>", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, first.Review.ID, saved.Review.ID)

	again, err := svc.WeeklyReview(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "constancia", again.Review.Achievement)
	require.NotNil(t, again.CurrentWeek)
	assert.Equal(t, "leer", again.CurrentWeek.Objectives[1].Text)

	month, err := svc.CurrentMonth(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, month.CurrentWeek)
	assert.Equal(t, 2, month.CurrentWeek.Number)
	assert.Len(t, month.Weeks, 2)
}

func TestAddAreaSharesCatalogButNotScores(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	first, err := svc.AddArea(ctx, "u1", domain.AddAreaInput{Name: "Salud", Priority: domain.PriorityHigh, Score: 8})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, first.Priority)

	_, err = svc.AddArea(ctx, "u1", domain.AddAreaInput{Name: "Salud"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	other, err := svc.AddArea(ctx, "u2", domain.AddAreaInput{Name: "Salud"})
	require.NoError(t, err)
	assert.Equal(t, first.Area.ID, other.Area.ID)
	assert.Equal(t, domain.DefaultAreaScore, other.Score)
	assert.Equal(t, domain.PriorityMedium, other.Priority)

	_, err = svc.AddArea(ctx, "u1", domain.AddAreaInput{Name: "Ocio", Priority: "urgente"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.UpdateArea(ctx, "u2", first.ID, domain.AreaPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SaveQuarter(ctx, "u1", first.ID, domain.Quarter{Label: "Q5", Year: 2025})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.SaveQuarter(ctx, "u1", first.ID, domain.Quarter{
		Label: "q1", Year: 2025, StartDate: *date(t, "2025-03-31"), EndDate: *date(t, "2025-01-01"),
	})
	assert.True(t, domain.IsValidation(err))
}

func TestUpdateExerciseKeepsFirstCompletion(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newService(t)

	ex, err := svc.CreateExercise(ctx, "u1", domain.Exercise{Name: "Premeditatio malorum"})
	require.NoError(t, err)
	assert.Equal(t, 1, ex.Order)
	assert.Equal(t, domain.ExercisePending, ex.State)

	done, err := svc.UpdateExercise(ctx, "u1", ex.ID, domain.ExerciseDone, "útil")
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	completedAt := *done.CompletedAt

	c.now = c.now.Add(48 * time.Hour)
	_, err = svc.UpdateExercise(ctx, "u1", ex.ID, domain.ExerciseToRepeat, "")
	require.NoError(t, err)
	again, err := svc.UpdateExercise(ctx, "u1", ex.ID, domain.ExerciseDone, "")
	require.NoError(t, err)
	assert.True(t, completedAt.Equal(*again.CompletedAt))
	assert.Equal(t, "útil", again.Reflections)

	_, err = svc.UpdateExercise(ctx, "u1", ex.ID, "hecho", "")
	assert.True(t, domain.IsValidation(err))
}

func TestSaveInteractionRequiresOwnPeople(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	ana, err := svc.SavePerson(ctx, "u1", domain.Person{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, domain.RelationFriend, ana.Relation)
	assert.Equal(t, domain.DefaultHealth, ana.Health)

	luis, err := svc.SavePerson(ctx, "u2", domain.Person{Name: "Luis"})
	require.NoError(t, err)

	_, err = svc.SaveInteraction(ctx, "u1", domain.Interaction{Title: "Cena", PersonIDs: []string{ana.ID, luis.ID}})
	assert.True(t, domain.IsValidation(err))

	in, err := svc.SaveInteraction(ctx, "u1", domain.Interaction{Title: "Cena", PersonIDs: []string{ana.ID, "", ana.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{ana.ID}, in.PersonIDs)
	assert.Equal(t, domain.InteractionNeutral, in.Kind)

	_, err = svc.SaveInteraction(ctx, "u2", domain.Interaction{ID: in.ID, Title: "Cena"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	detail, err := svc.PersonDetail(ctx, "u1", ana.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Interactions, 1)
}

func TestSaveTrackingReportsCreation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	weight := 71.2
	saved, created, err := svc.SaveTracking(ctx, "u1", domain.DailyTracking{Weight: &weight, Trained: true})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2025-03-12", saved.Date.Format(domain.DateLayout))

	_, created, err = svc.SaveTracking(ctx, "u1", domain.DailyTracking{Date: saved.Date})
	require.NoError(t, err)
	assert.False(t, created)

	stress := 0
	_, _, err = svc.SaveTracking(ctx, "u1", domain.DailyTracking{Stress: &stress})
	assert.True(t, domain.IsValidation(err))

	week, err := svc.SaveTrainingWeek(ctx, "u1", domain.TrainingWeek{Kind: domain.TrainingCardio})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", week.WeekStart.Format(domain.DateLayout))
	_, err = svc.SaveTrainingWeek(ctx, "u1", domain.TrainingWeek{Kind: "yoga"})
	assert.True(t, domain.IsValidation(err))
}

func TestTodayCombinesEveryArea(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.AddArea(ctx, "u1", domain.AddAreaInput{Name: "Salud", Priority: domain.PriorityHigh, Score: 4})
	require.NoError(t, err)
	_, err = svc.AddArea(ctx, "u1", domain.AddAreaInput{Name: "Trabajo", Priority: domain.PriorityHigh, Score: 9})
	require.NoError(t, err)
	_, err = svc.AddArea(ctx, "u1", domain.AddAreaInput{Name: "Ocio", Priority: domain.PriorityLow, Score: 10})
	require.NoError(t, err)
	_, err = svc.CreateExercise(ctx, "u1", domain.Exercise{Name: "Diario", State: domain.ExerciseDone})
	require.NoError(t, err)
	_, err = svc.CreateExercise(ctx, "u1", domain.Exercise{Name: "Ayuno"})
	require.NoError(t, err)
	_, err = svc.SaveInteraction(ctx, "u1", domain.Interaction{Title: "Paseo", Learning: "escuchar"})
	require.NoError(t, err)
	_, err = svc.SaveInteraction(ctx, "u1", domain.Interaction{Title: "Llamada"})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, "u1", domain.Event{Title: "Dentista", StartsAt: time.Date(2025, time.March, 12, 17, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, "u1", domain.Event{Title: "Mañana", StartsAt: time.Date(2025, time.March, 13, 8, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	d, err := svc.Today(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, d.Entry)
	assert.Nil(t, d.Tracking)
	require.NotNil(t, d.PriorityArea)
	assert.Equal(t, "Trabajo", d.PriorityArea.Area.Name)
	require.NotNil(t, d.NextExercise)
	assert.Equal(t, "Ayuno", d.NextExercise.Name)
	require.NotNil(t, d.PendingLearning)
	assert.Equal(t, "Llamada", d.PendingLearning.Title)
	require.Len(t, d.Events, 1)
	assert.Equal(t, "Dentista", d.Events[0].Title)
	assert.Nil(t, d.WeakRelation)
	require.NotNil(t, d.Insight)
}

func TestKnowledgeFiltersAndValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.CreateKnowledge(ctx, "u1", domain.KnowledgeItem{Title: "Cartas a Lucilio", Category: domain.CategoryBook, Author: "Séneca"})
	require.NoError(t, err)
	_, err = svc.CreateKnowledge(ctx, "u1", domain.KnowledgeItem{Title: "x", Category: domain.CategoryVideo, Rating: "épico"})
	assert.True(t, domain.IsValidation(err))

	list, err := svc.ListKnowledge(ctx, "u1", "", " séneca ")
	require.NoError(t, err)
	assert.Equal(t, domain.FilterAll, list.Category)
	assert.Equal(t, "séneca", list.Search)
	assert.Len(t, list.Items, 1)

	_, err = svc.ListKnowledge(ctx, "u1", "novela", "")
	assert.True(t, domain.IsValidation(err))

	list, err = svc.ListKnowledge(ctx, "u2", domain.FilterAll, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Zero(t, list.Total)
}
