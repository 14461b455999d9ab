package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
)

func march(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsAreScopedToTheirUser(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	m1, err := repo.GetOrCreateMonth(ctx, "u1", 2025, 3)
	require.NoError(t, err)
	again, err := repo.GetOrCreateMonth(ctx, "u1", 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, again.ID)

	m2, err := repo.GetOrCreateMonth(ctx, "u2", 2025, 3)
	require.NoError(t, err)
	assert.NotEqual(t, m1.ID, m2.ID)

	_, err = repo.GetMonth(ctx, "u2", m1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetOrCreateWeek(ctx, "u2", m1.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	weeks, err := repo.ListWeeks(ctx, "u2", m1.ID)
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestSaveEntryEnforcesOneEntryPerDay(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	month, err := repo.GetOrCreateMonth(ctx, "u1", 2025, 3)
	require.NoError(t, err)

	first := domain.Entry{ID: "e1", MonthID: month.ID, UserID: "u1", Date: march(12), Mood: 4, Tasks: []domain.Task{{Text: "a"}}}
	require.NoError(t, repo.SaveEntry(ctx, first))

	dup := first
	dup.ID = "e2"
	assert.ErrorIs(t, repo.SaveEntry(ctx, dup), domain.ErrConflict)

	foreign := first
	foreign.ID = "e3"
	foreign.UserID = "u2"
	assert.ErrorIs(t, repo.SaveEntry(ctx, foreign), domain.ErrNotFound)

	got, err := repo.GetEntry(ctx, "u1", "e1")
	require.NoError(t, err)
	got.Tasks[0].Done = true
	stored, err := repo.GetEntry(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.False(t, stored.Tasks[0].Done)

	between, err := repo.ListEntriesBetween(ctx, "u1", march(10), march(12))
	require.NoError(t, err)
	assert.Len(t, between, 1)

	recorded := repo.Events()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.TypeEntrySaved, recorded[0].Type)
	assert.Equal(t, events.EntrySaved{
		EntryID:           "e1",
		UserID:            "u1",
		Date:              "2025-03-12",
		Mood:              4,
		CompletionPercent: 14,
	}, recorded[0].Payload)

	require.NoError(t, repo.DeleteEntry(ctx, "u1", "e1"))
	assert.ErrorIs(t, repo.DeleteEntry(ctx, "u1", "e1"), domain.ErrNotFound)
}

func TestUpsertTrackingReplacesTheDay(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	created, err := repo.UpsertTracking(ctx, domain.DailyTracking{ID: "t1", UserID: "u1", Date: march(12)})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.UpsertTracking(ctx, domain.DailyTracking{ID: "t2", UserID: "u1", Date: march(12), Trained: true})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.FindTracking(ctx, "u1", march(12))
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	assert.True(t, got.Trained)

	recent, err := repo.ListRecentTrackings(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestQuartersReplaceByLabelAndYear(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	score, err := repo.AddAreaScore(ctx, domain.LifeArea{ID: "a1", Name: "Salud"}, domain.AreaScore{ID: "s1", UserID: "u1", Priority: domain.PriorityHigh, Score: 5})
	require.NoError(t, err)

	for _, q := range []domain.Quarter{
		{ID: "q1", AreaScoreID: score.ID, Label: "Q1", Year: 2025, Objectives: "a"},
		{ID: "q2", AreaScoreID: score.ID, Label: "Q2", Year: 2025},
		{ID: "q3", AreaScoreID: score.ID, Label: "Q1", Year: 2025, Objectives: "b"},
		{ID: "q4", AreaScoreID: score.ID, Label: "Q4", Year: 2024},
	} {
		require.NoError(t, repo.SaveQuarter(ctx, "u1", q))
	}
	assert.ErrorIs(t, repo.SaveQuarter(ctx, "u2", domain.Quarter{ID: "q5", AreaScoreID: score.ID}), domain.ErrNotFound)

	quarters, err := repo.ListQuarters(ctx, "u1", score.ID)
	require.NoError(t, err)
	require.Len(t, quarters, 3)
	assert.Equal(t, "Q2", quarters[0].Label)
	assert.Equal(t, "Q1", quarters[1].Label)
	assert.Equal(t, "b", quarters[1].Objectives)
	assert.Equal(t, 2024, quarters[2].Year)
}

func TestConcurrentHabitToggles(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	month, err := repo.GetOrCreateMonth(ctx, "u1", 2025, 3)
	require.NoError(t, err)
	habit, _, err := repo.CreateHabit(ctx, "u1", domain.Habit{ID: "h1", MonthID: month.ID, Name: "Leer"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for d := 1; d <= 20; d++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, err := repo.ToggleHabitDay(ctx, "u1", habit.ID, day, march(day))
			assert.NoError(t, err)
		}(d)
	}
	wg.Wait()

	days, err := repo.ListHabitDays(ctx, "u1", month.ID)
	require.NoError(t, err)
	assert.Len(t, days, 20)
	assert.Equal(t, 1, days[0].Day)
	assert.Len(t, repo.Events(), 20)
}
