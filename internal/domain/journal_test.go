package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEntryCompletionPercent(t *testing.T) {
	var empty Entry
	assert.Equal(t, 0, empty.CompletionPercent())

	partial := Entry{
		Intention: "serena",
		Gratitude: [5]string{"sol", " ", "café", "", "amigos"},
		Tasks:     []Task{{Text: "leer"}},
	}
	assert.Equal(t, 43, partial.CompletionPercent())

	full := partial
	full.Happiness = "x"
	full.WentWell = "x"
	full.ToImprove = "x"
	full.Reflections = "x"
	assert.Equal(t, 100, full.CompletionPercent())

	twoGratitudes := Entry{Gratitude: [5]string{"sol", "café"}}
	assert.Equal(t, 0, twoGratitudes.CompletionPercent())
}

func TestEntryDerivedLists(t *testing.T) {
	e := Entry{
		Tags:      " trabajo, ,familia ,",
		Gratitude: [5]string{"", "sol", "  ", "mar", ""},
		Tasks:     []Task{{Text: "a", Done: true}, {Text: "b"}, {Text: "c", Done: true}},
	}
	assert.Equal(t, []string{"trabajo", "familia"}, e.TagList())
	assert.Equal(t, []string{"sol", "mar"}, e.GratitudeItems())
	assert.Equal(t, 2, e.CompletedTasks())
	assert.Equal(t, 3, e.TotalTasks())
	assert.Empty(t, Entry{}.TagList())
}

func TestEntrySetField(t *testing.T) {
	var e Entry
	require.NoError(t, e.SetField(FieldMood, " 5 "))
	assert.Equal(t, 5, e.Mood)
	require.NoError(t, e.SetField("gratitud_5", "la lluvia"))
	assert.Equal(t, "la lluvia", e.Gratitude[4])
	require.NoError(t, e.SetField(FieldReflections, "hoy"))
	assert.Equal(t, "hoy", e.Reflections)

	for _, field := range []string{"gratitud_0", "gratitud_6", "gratitud_x", "usuario", "id"} {
		err := e.SetField(field, "x")
		require.Error(t, err, field)
		assert.True(t, IsValidation(err), field)
		assert.Contains(t, err.Error(), "no válido")
	}
	assert.True(t, IsValidation(e.SetField(FieldMood, "6")))
	assert.True(t, IsValidation(e.SetField(FieldMood, "feliz")))

	assert.False(t, IsTextField(FieldMood))
	assert.True(t, IsTextField(FieldTags))
}

func TestBuildHabitRow(t *testing.T) {
	habit := Habit{ID: "h1", Name: "Meditar"}
	checkins := []HabitDay{
		{HabitID: "h1", Day: 1, Done: true},
		{HabitID: "h1", Day: 2, Done: false},
		{HabitID: "h1", Day: 15, Done: true},
		{HabitID: "h1", Day: 31, Done: true},
	}
	row := BuildHabitRow(habit, checkins, 30)
	require.Len(t, row.Days, 30)
	assert.True(t, row.Days[0].Done)
	assert.False(t, row.Days[1].Done)
	assert.True(t, row.Days[14].Done)
	assert.Equal(t, 30, row.Days[29].Day)
	assert.Equal(t, 7, row.Percent)

	assert.Equal(t, 0, HabitProgress(3, 0))
	assert.Equal(t, 100, HabitProgress(28, 28))
}

func TestPercentsRoundHalfToEven(t *testing.T) {
	assert.Equal(t, 12, HabitProgress(1, 8))
	assert.Equal(t, 38, HabitProgress(3, 8))
	assert.Equal(t, 62, HabitProgress(5, 8))
}

func TestExerciseProgress(t *testing.T) {
	exercises := []Exercise{
		{ID: "1", Order: 1, State: ExerciseDone},
		{ID: "2", Order: 2, State: ExerciseToRepeat},
		{ID: "3", Order: 3, State: ExercisePending},
		{ID: "4", Order: 4, State: ExercisePending},
	}
	s := ExerciseProgress(exercises)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.ToRepeat)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 25, s.Percent)
	assert.Equal(t, 90, s.Degrees)
	require.NotNil(t, s.Next)
	assert.Equal(t, "3", s.Next.ID)

	assert.Equal(t, ExerciseSummary{}, ExerciseProgress(nil))
}

func TestCalendarHelpers(t *testing.T) {
	wednesday := day("2025-03-12")
	assert.Equal(t, day("2025-03-10"), WeekStart(wednesday))
	assert.Equal(t, day("2025-03-10"), WeekStart(day("2025-03-16")))
	assert.Equal(t, day("2025-03-17"), WeekStart(day("2025-03-17")))

	from, to := PreviousWeek(wednesday)
	assert.Equal(t, day("2025-03-03"), from)
	assert.Equal(t, day("2025-03-09"), to)

	assert.Equal(t, 1, WeekOfMonth(day("2025-03-07")))
	assert.Equal(t, 2, WeekOfMonth(day("2025-03-08")))
	assert.Equal(t, 5, WeekOfMonth(day("2025-03-31")))

	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 31, DaysInMonth(2025, 12))

	late := time.Date(2025, time.March, 12, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, wednesday, DateOf(late))

	_, err := ParseDate("2025-13-01")
	assert.True(t, IsValidation(err))
}

func TestSummarizeWeek(t *testing.T) {
	entries := []Entry{
		{Date: day("2025-03-03"), Mood: 4, Tasks: []Task{{Text: "a", Done: true}, {Text: "b"}}, WentWell: "dormí", ToImprove: "pantallas"},
		{Date: day("2025-03-04"), Mood: 3, Tasks: []Task{{Text: "c", Done: true}}},
		{Date: day("2025-03-05"), Mood: 4, ToImprove: "prisa"},
	}
	people := []Person{{ID: "ana", Name: "Ana"}, {ID: "luis", Name: "Luis"}}
	interactions := []Interaction{
		{ID: "i1", Kind: InteractionPositive, PersonIDs: []string{"luis", "ana"}},
		{ID: "i2", Kind: InteractionSupport, PersonIDs: []string{"ana", "ghost"}},
		{ID: "i3", Kind: InteractionPositive, PersonIDs: []string{"luis"}},
	}

	s := SummarizeWeek(entries, interactions, people)
	require.NotNil(t, s.MoodAverage)
	assert.Equal(t, 3.7, *s.MoodAverage)
	assert.Equal(t, 3, s.TotalTasks)
	assert.Equal(t, 2, s.CompletedTasks)
	assert.Equal(t, 67, s.TasksPercent)
	assert.Equal(t, map[InteractionKind]int{InteractionPositive: 2, InteractionSupport: 1}, s.Balance)
	require.NotNil(t, s.TopPerson)
	assert.Equal(t, "Luis", s.TopPerson.Person.Name)
	assert.Equal(t, 2, s.TopPerson.Count)

	achievement, learning := SuggestedReview(entries)
	assert.Equal(t, " - dormí", achievement)
	assert.Equal(t, " - pantallas\n - prisa", learning)

	empty := SummarizeWeek(nil, nil, nil)
	assert.Nil(t, empty.MoodAverage)
	assert.Nil(t, empty.TopPerson)
	assert.Zero(t, empty.TasksPercent)
}
