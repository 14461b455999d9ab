package domain

import (
	"math"
	"strings"
	"time"
)

// Objective is one of the three goals tracked for a month or a week.
type Objective struct {
	Text string
	Done bool
}

// MonthReview is filled in at the end of a month.
type MonthReview struct {
	Achievement string
	Obstacle    string
	Learning    string
	HappyMoment string
}

// Month is the root record of the monthly journal.
type Month struct {
	ID         string
	UserID     string
	Year       int
	Month      int
	Objectives [3]Objective
	Review     MonthReview
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CompletedObjectives counts the month objectives marked as done.
func (m Month) CompletedObjectives() int {
	return countDone(m.Objectives)
}

// Week holds the objectives of one 7-day block of a month.
type Week struct {
	ID         string
	MonthID    string
	Number     int
	Objectives [3]Objective
}

// CompletedObjectives counts the week objectives marked as done.
func (w Week) CompletedObjectives() int {
	return countDone(w.Objectives)
}

func countDone(objectives [3]Objective) int {
	n := 0
	for _, o := range objectives {
		if o.Done {
			n++
		}
	}
	return n
}

// Task is an item of the daily task list.
type Task struct {
	Text string `json:"texto"`
	Done bool   `json:"completada"`
}

// Entry is a daily journal page.
type Entry struct {
	ID          string
	MonthID     string
	UserID      string
	Date        time.Time
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
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultMood is assigned to entries created without an explicit mood.
const DefaultMood = 3

// CompletedTasks counts tasks marked as done.
func (e Entry) CompletedTasks() int {
	n := 0
	for _, t := range e.Tasks {
		if t.Done {
			n++
		}
	}
	return n
}

// TotalTasks counts all tasks of the day.
func (e Entry) TotalTasks() int {
	return len(e.Tasks)
}

// GratitudeItems returns the non-blank gratitude lines in order.
func (e Entry) GratitudeItems() []string {
	items := make([]string, 0, len(e.Gratitude))
	for _, g := range e.Gratitude {
		if strings.TrimSpace(g) != "" {
			items = append(items, g)
		}
	}
	return items
}

// CompletionPercent scores how much of the page was filled in: the five
// free-text prompts, at least three gratitude lines and at least one task.
func (e Entry) CompletionPercent() int {
	fields := []string{e.Intention, e.Happiness, e.WentWell, e.ToImprove, e.Reflections}
	done := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			done++
		}
	}
	total := len(fields)

	if len(e.GratitudeItems()) >= 3 {
		done++
	}
	total++

	if e.TotalTasks() > 0 {
		done++
	}
	total++

	return roundPercent(done, total)
}

// TagList splits the comma separated tags, dropping blanks.
func (e Entry) TagList() []string {
	parts := strings.Split(e.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Habit is tracked day by day during a month.
type Habit struct {
	ID          string
	MonthID     string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}

// DefaultColor is used by habits, areas and events created without a color.
const DefaultColor = "#00ffff"

// HabitDay is a check-in of a habit on a day of its month.
type HabitDay struct {
	HabitID   string
	Day       int
	Done      bool
	Notes     string
	UpdatedAt time.Time
}

// HabitProgress returns the rounded share of the month's days that were checked.
func HabitProgress(doneDays, daysInMonth int) int {
	if daysInMonth <= 0 {
		return 0
	}
	return roundPercent(doneDays, daysInMonth)
}

// HabitGridDay is one cell of the habit grid.
type HabitGridDay struct {
	Day  int
	Done bool
}

// HabitRow is a habit with its per-day cells and progress.
type HabitRow struct {
	Habit   Habit
	Days    []HabitGridDay
	Percent int
}

// BuildHabitRow lays out the check-ins of a habit over daysInMonth days.
func BuildHabitRow(habit Habit, checkins []HabitDay, daysInMonth int) HabitRow {
	done := make(map[int]struct{}, len(checkins))
	for _, c := range checkins {
		if c.Done {
			done[c.Day] = struct{}{}
		}
	}
	row := HabitRow{Habit: habit, Days: make([]HabitGridDay, 0, daysInMonth)}
	checked := 0
	for day := 1; day <= daysInMonth; day++ {
		_, ok := done[day]
		if ok {
			checked++
		}
		row.Days = append(row.Days, HabitGridDay{Day: day, Done: ok})
	}
	row.Percent = HabitProgress(checked, daysInMonth)
	return row
}

// WeeklyReview captures the guided reflection about a finished week.
type WeeklyReview struct {
	ID          string
	WeekID      string
	UserID      string
	Achievement string
	Obstacle    string
	Learning    string
	CreatedAt   time.Time
}

func roundPercent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(part) / float64(total) * 100))
}
