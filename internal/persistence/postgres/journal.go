package postgres

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
	"example.com/prosoche/internal/observability"
)

const monthColumns = `month_id, user_id, year, month, objectives, review_achievement, review_obstacle, review_learning, review_happy_moment, created_at, updated_at`

func scanMonth(row pgx.Row) (*domain.Month, error) {
	var (
		m   domain.Month
		raw []byte
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Year, &m.Month, &raw, &m.Review.Achievement, &m.Review.Obstacle, &m.Review.Learning, &m.Review.HappyMoment, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	objectives, err := unmarshalObjectives(raw)
	if err != nil {
		return nil, err
	}
	m.Objectives = objectives
	return &m, nil
}

// GetOrCreateMonth implements domain.JournalRepository.
func (r *Repository) GetOrCreateMonth(ctx context.Context, userID string, year, month int) (*domain.Month, error) {
	var out *domain.Month
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO months (month_id, user_id, year, month) VALUES ($1,$2,$3,$4)
             ON CONFLICT (user_id, year, month) DO NOTHING`,
			uuid.NewString(), userID, year, month,
		); err != nil {
			return err
		}
		m, err := scanMonth(tx.QueryRow(ctx, `SELECT `+monthColumns+` FROM months WHERE user_id=$1 AND year=$2 AND month=$3`, userID, year, month))
		out = m
		return err
	})
	return out, err
}

// FindMonth implements domain.JournalRepository.
func (r *Repository) FindMonth(ctx context.Context, userID string, year, month int) (*domain.Month, error) {
	var out *domain.Month
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		m, err := scanMonth(tx.QueryRow(ctx, `SELECT `+monthColumns+` FROM months WHERE user_id=$1 AND year=$2 AND month=$3`, userID, year, month))
		out = m
		return err
	})
	return out, err
}

// GetMonth implements domain.JournalRepository.
func (r *Repository) GetMonth(ctx context.Context, userID, monthID string) (*domain.Month, error) {
	var out *domain.Month
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		m, err := scanMonth(tx.QueryRow(ctx, `SELECT `+monthColumns+` FROM months WHERE user_id=$1 AND month_id=$2`, userID, monthID))
		out = m
		return err
	})
	return out, err
}

// UpdateMonth implements domain.JournalRepository.
func (r *Repository) UpdateMonth(ctx context.Context, month domain.Month) error {
	objectives, err := marshalObjectives(month.Objectives)
	if err != nil {
		return err
	}
	return r.withUser(ctx, month.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE months SET objectives=$3, review_achievement=$4, review_obstacle=$5, review_learning=$6, review_happy_moment=$7, updated_at=$8
             WHERE month_id=$1 AND user_id=$2`,
			month.ID, month.UserID, objectives, month.Review.Achievement, month.Review.Obstacle, month.Review.Learning, month.Review.HappyMoment, month.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}

// ListPreviousMonths implements domain.JournalRepository.
func (r *Repository) ListPreviousMonths(ctx context.Context, userID, excludeID string, limit int) ([]domain.Month, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	out := make([]domain.Month, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+monthColumns+` FROM months WHERE user_id=$1 AND month_id::text<>$2
             ORDER BY year DESC, month DESC LIMIT $3`,
			userID, excludeID, limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanMonth(rows)
			if err != nil {
				return err
			}
			out = append(out, *m)
		}
		return rows.Err()
	})
	return out, err
}

const weekSelect = `SELECT w.week_id, w.month_id, w.number, w.objectives
    FROM weeks w JOIN months m ON m.month_id = w.month_id`

func scanWeek(row pgx.Row) (*domain.Week, error) {
	var (
		w   domain.Week
		raw []byte
	)
	if err := row.Scan(&w.ID, &w.MonthID, &w.Number, &raw); err != nil {
		return nil, err
	}
	objectives, err := unmarshalObjectives(raw)
	if err != nil {
		return nil, err
	}
	w.Objectives = objectives
	return &w, nil
}

// ListWeeks implements domain.JournalRepository.
func (r *Repository) ListWeeks(ctx context.Context, userID, monthID string) ([]domain.Week, error) {
	out := make([]domain.Week, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, weekSelect+` WHERE m.user_id=$1 AND w.month_id=$2 ORDER BY w.number`, userID, monthID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			w, err := scanWeek(rows)
			if err != nil {
				return err
			}
			out = append(out, *w)
		}
		return rows.Err()
	})
	return out, err
}

// FindWeek implements domain.JournalRepository.
func (r *Repository) FindWeek(ctx context.Context, userID, monthID string, number int) (*domain.Week, error) {
	var out *domain.Week
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		w, err := scanWeek(tx.QueryRow(ctx, weekSelect+` WHERE m.user_id=$1 AND w.month_id=$2 AND w.number=$3`, userID, monthID, number))
		out = w
		return err
	})
	return out, err
}

// GetOrCreateWeek implements domain.JournalRepository.
func (r *Repository) GetOrCreateWeek(ctx context.Context, userID, monthID string, number int) (*domain.Week, error) {
	var out *domain.Week
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO weeks (week_id, month_id, number)
             SELECT $1::uuid, month_id, $3::int FROM months WHERE month_id=$2 AND user_id=$4
             ON CONFLICT (month_id, number) DO NOTHING`,
			uuid.NewString(), monthID, number, userID,
		); err != nil {
			return err
		}
		w, err := scanWeek(tx.QueryRow(ctx, weekSelect+` WHERE m.user_id=$1 AND w.month_id=$2 AND w.number=$3`, userID, monthID, number))
		out = w
		return err
	})
	return out, err
}

// UpdateWeek implements domain.JournalRepository.
func (r *Repository) UpdateWeek(ctx context.Context, userID string, week domain.Week) error {
	objectives, err := marshalObjectives(week.Objectives)
	if err != nil {
		return err
	}
	return r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE weeks w SET objectives=$1 FROM months m
             WHERE w.week_id=$2 AND m.month_id=w.month_id AND m.user_id=$3`,
			objectives, week.ID, userID,
		)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}

const entryColumns = `entry_id, month_id, user_id, entry_date, tags, mood, intention, tasks, gratitude, media, happiness, went_well, to_improve, reflections, created_at, updated_at`

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e         domain.Entry
		tasks     []byte
		gratitude []string
	)
	if err := row.Scan(&e.ID, &e.MonthID, &e.UserID, &e.Date, &e.Tags, &e.Mood, &e.Intention, &tasks, &gratitude,
		&e.Media, &e.Happiness, &e.WentWell, &e.ToImprove, &e.Reflections, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Tasks = []domain.Task{}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &e.Tasks); err != nil {
			return nil, err
		}
	}
	copy(e.Gratitude[:], gratitude)
	return &e, nil
}

func (r *Repository) queryEntries(ctx context.Context, userID, query string, args ...interface{}) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				return err
			}
			out = append(out, *e)
		}
		return rows.Err()
	})
	return out, err
}

// ListEntries implements domain.JournalRepository.
func (r *Repository) ListEntries(ctx context.Context, userID, monthID string) ([]domain.Entry, error) {
	return r.queryEntries(ctx, userID,
		`SELECT `+entryColumns+` FROM entries WHERE user_id=$1 AND month_id=$2 ORDER BY entry_date DESC`,
		userID, monthID)
}

// ListEntriesBetween implements domain.JournalRepository.
func (r *Repository) ListEntriesBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Entry, error) {
	return r.queryEntries(ctx, userID,
		`SELECT `+entryColumns+` FROM entries WHERE user_id=$1 AND entry_date BETWEEN $2 AND $3 ORDER BY entry_date`,
		userID, domain.DateOf(from), domain.DateOf(to))
}

// GetEntry implements domain.JournalRepository.
func (r *Repository) GetEntry(ctx context.Context, userID, entryID string) (*domain.Entry, error) {
	var out *domain.Entry
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		e, err := scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE user_id=$1 AND entry_id=$2`, userID, entryID))
		out = e
		return err
	})
	return out, err
}

// FindEntryByDate implements domain.JournalRepository.
func (r *Repository) FindEntryByDate(ctx context.Context, userID string, date time.Time) (*domain.Entry, error) {
	var out *domain.Entry
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		e, err := scanEntry(tx.QueryRow(ctx,
			`SELECT `+entryColumns+` FROM entries WHERE user_id=$1 AND entry_date=$2 ORDER BY created_at LIMIT 1`,
			userID, domain.DateOf(date)))
		out = e
		return err
	})
	return out, err
}

// SaveEntry implements domain.JournalRepository.
func (r *Repository) SaveEntry(ctx context.Context, entry domain.Entry) error {
	tasks := entry.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	entry.Date = domain.DateOf(entry.Date)

	err = r.withUser(ctx, entry.UserID, func(tx pgx.Tx) error {
		var owned bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM months WHERE month_id=$1 AND user_id=$2)`, entry.MonthID, entry.UserID).Scan(&owned); err != nil {
			return err
		}
		if !owned {
			return domain.ErrNotFound
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO entries (`+entryColumns+`)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
             ON CONFLICT (entry_id) DO UPDATE SET
                tags=EXCLUDED.tags, mood=EXCLUDED.mood, intention=EXCLUDED.intention, tasks=EXCLUDED.tasks,
                gratitude=EXCLUDED.gratitude, media=EXCLUDED.media, happiness=EXCLUDED.happiness,
                went_well=EXCLUDED.went_well, to_improve=EXCLUDED.to_improve, reflections=EXCLUDED.reflections,
                updated_at=EXCLUDED.updated_at
             WHERE entries.user_id = EXCLUDED.user_id`,
			entry.ID, entry.MonthID, entry.UserID, entry.Date, entry.Tags, entry.Mood, entry.Intention, tasksJSON,
			entry.Gratitude[:], entry.Media, entry.Happiness, entry.WentWell, entry.ToImprove, entry.Reflections,
			entry.CreatedAt, entry.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if err := expectAffected(tag); err != nil {
			return err
		}

		return insertOutbox(ctx, tx, outboxRecord{
			UserID:        entry.UserID,
			AggregateType: "entry",
			AggregateID:   entry.ID,
			EventType:     events.TypeEntrySaved,
			OccurredAt:    entry.UpdatedAt,
			Payload: events.EntrySaved{
				EntryID:           entry.ID,
				UserID:            entry.UserID,
				Date:              entry.Date.Format(domain.DateLayout),
				Mood:              entry.Mood,
				CompletionPercent: entry.CompletionPercent(),
				OccurredAt:        entry.UpdatedAt,
			},
		})
	})
	if err != nil {
		return err
	}
	recordWrite(events.TypeEntrySaved)
	observability.RecordEntrySaved(entry.UpdatedAt)
	return nil
}

// DeleteEntry implements domain.JournalRepository.
func (r *Repository) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM entries WHERE user_id=$1 AND entry_id=$2`, userID, entryID)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}

const habitSelect = `SELECT h.habit_id, h.month_id, h.name, h.description, h.color, h.created_at
    FROM habits h JOIN months m ON m.month_id = h.month_id`

func scanHabit(row pgx.Row) (*domain.Habit, error) {
	var h domain.Habit
	if err := row.Scan(&h.ID, &h.MonthID, &h.Name, &h.Description, &h.Color, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHabits implements domain.JournalRepository.
func (r *Repository) ListHabits(ctx context.Context, userID, monthID string) ([]domain.Habit, error) {
	out := make([]domain.Habit, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, habitSelect+` WHERE m.user_id=$1 AND h.month_id=$2 ORDER BY h.created_at, h.name`, userID, monthID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			h, err := scanHabit(rows)
			if err != nil {
				return err
			}
			out = append(out, *h)
		}
		return rows.Err()
	})
	return out, err
}

// CreateHabit implements domain.JournalRepository.
func (r *Repository) CreateHabit(ctx context.Context, userID string, habit domain.Habit) (*domain.Habit, bool, error) {
	var (
		out     *domain.Habit
		created bool
	)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO habits (habit_id, month_id, name, description, color, created_at)
             SELECT $1::uuid, month_id, $3::text, $4::text, $5::text, $6::timestamptz FROM months WHERE month_id=$2 AND user_id=$7
             ON CONFLICT (month_id, name) DO NOTHING`,
			habit.ID, habit.MonthID, habit.Name, habit.Description, habit.Color, habit.CreatedAt, userID,
		)
		if err != nil {
			return err
		}
		created = tag.RowsAffected() == 1
		h, err := scanHabit(tx.QueryRow(ctx, habitSelect+` WHERE m.user_id=$1 AND h.month_id=$2 AND h.name=$3`, userID, habit.MonthID, habit.Name))
		out = h
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// ListHabitDays implements domain.JournalRepository.
func (r *Repository) ListHabitDays(ctx context.Context, userID, monthID string) ([]domain.HabitDay, error) {
	out := make([]domain.HabitDay, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT d.habit_id, d.day, d.done, d.notes, d.updated_at
             FROM habit_days d
             JOIN habits h ON h.habit_id = d.habit_id
             JOIN months m ON m.month_id = h.month_id
             WHERE m.user_id=$1 AND h.month_id=$2
             ORDER BY d.habit_id, d.day`,
			userID, monthID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var d domain.HabitDay
			if err := rows.Scan(&d.HabitID, &d.Day, &d.Done, &d.Notes, &d.UpdatedAt); err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	return out, err
}

// ToggleHabitDay implements domain.JournalRepository.
func (r *Repository) ToggleHabitDay(ctx context.Context, userID, habitID string, day int, at time.Time) (bool, error) {
	var done bool
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		var owned bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM habits h JOIN months m ON m.month_id = h.month_id WHERE h.habit_id=$1 AND m.user_id=$2)`,
			habitID, userID,
		).Scan(&owned); err != nil {
			return err
		}
		if !owned {
			return domain.ErrNotFound
		}

		tag, err := tx.Exec(ctx, `DELETE FROM habit_days WHERE habit_id=$1 AND day=$2`, habitID, day)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO habit_days (habit_id, day, done, updated_at) VALUES ($1,$2,TRUE,$3)`,
				habitID, day, at,
			); err != nil {
				return err
			}
			done = true
		}

		return insertOutbox(ctx, tx, outboxRecord{
			UserID:        userID,
			AggregateType: "habit",
			AggregateID:   habitID,
			EventType:     events.TypeHabitToggled,
			OccurredAt:    at,
			Payload: events.HabitToggled{
				HabitID:    habitID,
				UserID:     userID,
				Day:        day,
				Done:       done,
				OccurredAt: at,
			},
		})
	})
	if err != nil {
		return false, err
	}
	recordWrite(events.TypeHabitToggled)
	return done, nil
}

const reviewColumns = `review_id, week_id, user_id, achievement, obstacle, learning, created_at`

func scanReview(row pgx.Row) (*domain.WeeklyReview, error) {
	var rv domain.WeeklyReview
	if err := row.Scan(&rv.ID, &rv.WeekID, &rv.UserID, &rv.Achievement, &rv.Obstacle, &rv.Learning, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetOrCreateWeeklyReview implements domain.JournalRepository.
func (r *Repository) GetOrCreateWeeklyReview(ctx context.Context, seed domain.WeeklyReview) (*domain.WeeklyReview, bool, error) {
	var (
		out     *domain.WeeklyReview
		created bool
	)
	err := r.withUser(ctx, seed.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO weekly_reviews (`+reviewColumns+`)
             SELECT $1::uuid, w.week_id, $3::text, $4::text, $5::text, $6::text, $7::timestamptz
             FROM weeks w JOIN months m ON m.month_id = w.month_id
             WHERE w.week_id=$2 AND m.user_id=$3
             ON CONFLICT (week_id) DO NOTHING`,
			seed.ID, seed.WeekID, seed.UserID, seed.Achievement, seed.Obstacle, seed.Learning, seed.CreatedAt,
		)
		if err != nil {
			return err
		}
		created = tag.RowsAffected() == 1
		rv, err := scanReview(tx.QueryRow(ctx, `SELECT `+reviewColumns+` FROM weekly_reviews WHERE week_id=$1 AND user_id=$2`, seed.WeekID, seed.UserID))
		out = rv
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// SaveWeeklyReview implements domain.JournalRepository.
func (r *Repository) SaveWeeklyReview(ctx context.Context, review domain.WeeklyReview) error {
	return r.withUser(ctx, review.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE weekly_reviews SET achievement=$3, obstacle=$4, learning=$5 WHERE review_id=$1 AND user_id=$2`,
			review.ID, review.UserID, review.Achievement, review.Obstacle, review.Learning,
		)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}
