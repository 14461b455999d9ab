package postgres

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
)

const trackingColumns = `tracking_id, user_id, tracking_date, weight, body_fat, muscle_mass, body_water, trained, workout_notes,
    healthy_eating, hydrated, rested, notes, sleep_hours, sleep_quality, energy, stress, steps`

func scanTracking(row pgx.Row) (*domain.DailyTracking, error) {
	var t domain.DailyTracking
	if err := row.Scan(&t.ID, &t.UserID, &t.Date, &t.Weight, &t.BodyFat, &t.MuscleMass, &t.BodyWater, &t.Trained, &t.WorkoutNotes,
		&t.HealthyEating, &t.Hydrated, &t.Rested, &t.Notes, &t.SleepHours, &t.SleepQuality, &t.Energy, &t.Stress, &t.Steps); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) queryTrackings(ctx context.Context, userID, query string, args ...interface{}) ([]domain.DailyTracking, error) {
	out := make([]domain.DailyTracking, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			t, err := scanTracking(rows)
			if err != nil {
				return err
			}
			out = append(out, *t)
		}
		return rows.Err()
	})
	return out, err
}

// FindTracking implements domain.VitalityRepository.
func (r *Repository) FindTracking(ctx context.Context, userID string, date time.Time) (*domain.DailyTracking, error) {
	var out *domain.DailyTracking
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		t, err := scanTracking(tx.QueryRow(ctx, `SELECT `+trackingColumns+` FROM daily_trackings WHERE user_id=$1 AND tracking_date=$2`, userID, domain.DateOf(date)))
		out = t
		return err
	})
	return out, err
}

// ListTrackingsBetween implements domain.VitalityRepository.
func (r *Repository) ListTrackingsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyTracking, error) {
	return r.queryTrackings(ctx, userID,
		`SELECT `+trackingColumns+` FROM daily_trackings WHERE user_id=$1 AND tracking_date BETWEEN $2 AND $3 ORDER BY tracking_date`,
		userID, domain.DateOf(from), domain.DateOf(to))
}

// ListRecentTrackings implements domain.VitalityRepository.
func (r *Repository) ListRecentTrackings(ctx context.Context, userID string, limit int) ([]domain.DailyTracking, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	return r.queryTrackings(ctx, userID,
		`SELECT `+trackingColumns+` FROM daily_trackings WHERE user_id=$1 ORDER BY tracking_date DESC LIMIT $2`,
		userID, limit)
}

// UpsertTracking implements domain.VitalityRepository.
func (r *Repository) UpsertTracking(ctx context.Context, tracking domain.DailyTracking) (bool, error) {
	tracking.Date = domain.DateOf(tracking.Date)
	var created bool
	err := r.withUser(ctx, tracking.UserID, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO daily_trackings (`+trackingColumns+`)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
             ON CONFLICT (user_id, tracking_date) DO UPDATE SET
                weight=EXCLUDED.weight, body_fat=EXCLUDED.body_fat, muscle_mass=EXCLUDED.muscle_mass,
                body_water=EXCLUDED.body_water, trained=EXCLUDED.trained, workout_notes=EXCLUDED.workout_notes,
                healthy_eating=EXCLUDED.healthy_eating, hydrated=EXCLUDED.hydrated, rested=EXCLUDED.rested,
                notes=EXCLUDED.notes, sleep_hours=EXCLUDED.sleep_hours, sleep_quality=EXCLUDED.sleep_quality,
                energy=EXCLUDED.energy, stress=EXCLUDED.stress, steps=EXCLUDED.steps
             RETURNING tracking_id, (xmax = 0)`,
			tracking.ID, tracking.UserID, tracking.Date, tracking.Weight, tracking.BodyFat, tracking.MuscleMass, tracking.BodyWater,
			tracking.Trained, tracking.WorkoutNotes, tracking.HealthyEating, tracking.Hydrated, tracking.Rested, tracking.Notes,
			tracking.SleepHours, tracking.SleepQuality, tracking.Energy, tracking.Stress, tracking.Steps,
		).Scan(&tracking.ID, &created); err != nil {
			return err
		}

		now := time.Now().UTC()
		return insertOutbox(ctx, tx, outboxRecord{
			UserID:        tracking.UserID,
			AggregateType: "tracking",
			AggregateID:   tracking.ID,
			EventType:     events.TypeVitalityTracked,
			OccurredAt:    now,
			Payload: events.VitalityTracked{
				TrackingID: tracking.ID,
				UserID:     tracking.UserID,
				Date:       tracking.Date.Format(domain.DateLayout),
				Trained:    tracking.Trained,
				Created:    created,
				OccurredAt: now,
			},
		})
	})
	if err != nil {
		return false, err
	}
	recordWrite(events.TypeVitalityTracked)
	return created, nil
}

// ListTrainingWeeks implements domain.VitalityRepository.
func (r *Repository) ListTrainingWeeks(ctx context.Context, userID string, weekStart time.Time) ([]domain.TrainingWeek, error) {
	out := make([]domain.TrainingWeek, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT training_week_id, user_id, week_start, kind, days, created_at
             FROM training_weeks WHERE user_id=$1 AND week_start=$2 ORDER BY kind`,
			userID, domain.DateOf(weekStart),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				w    domain.TrainingWeek
				days []string
			)
			if err := rows.Scan(&w.ID, &w.UserID, &w.WeekStart, &w.Kind, &days, &w.CreatedAt); err != nil {
				return err
			}
			copy(w.Days[:], days)
			out = append(out, w)
		}
		return rows.Err()
	})
	return out, err
}

// UpsertTrainingWeek implements domain.VitalityRepository.
func (r *Repository) UpsertTrainingWeek(ctx context.Context, week domain.TrainingWeek) error {
	return r.withUser(ctx, week.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO training_weeks (training_week_id, user_id, week_start, kind, days, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)
             ON CONFLICT (user_id, week_start, kind) DO UPDATE SET days=EXCLUDED.days`,
			week.ID, week.UserID, domain.DateOf(week.WeekStart), string(week.Kind), week.Days[:], week.CreatedAt,
		)
		return err
	})
}

const eventColumns = `event_id, user_id, title, description, kind, starts_at, ends_at, all_day, reminder, reminder_minutes, done, color, created_at`

func (r *Repository) queryEvents(ctx context.Context, userID, query string, args ...interface{}) ([]domain.Event, error) {
	out := make([]domain.Event, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var e domain.Event
			if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Kind, &e.StartsAt, &e.EndsAt, &e.AllDay,
				&e.Reminder, &e.ReminderMinutes, &e.Done, &e.Color, &e.CreatedAt); err != nil {
				return err
			}
			out = append(out, e)
		}
		return rows.Err()
	})
	return out, err
}

// ListEventsBetween implements domain.CalendarRepository.
func (r *Repository) ListEventsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Event, error) {
	return r.queryEvents(ctx, userID,
		`SELECT `+eventColumns+` FROM calendar_events WHERE user_id=$1 AND starts_at >= $2 AND starts_at < $3 ORDER BY starts_at, title`,
		userID, from, to)
}

// ListEvents implements domain.CalendarRepository.
func (r *Repository) ListEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	return r.queryEvents(ctx, userID,
		`SELECT `+eventColumns+` FROM calendar_events WHERE user_id=$1 ORDER BY starts_at, title`, userID)
}

// CreateEvent implements domain.CalendarRepository.
func (r *Repository) CreateEvent(ctx context.Context, event domain.Event) error {
	return r.withUser(ctx, event.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO calendar_events (`+eventColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			event.ID, event.UserID, event.Title, event.Description, string(event.Kind), event.StartsAt, event.EndsAt,
			event.AllDay, event.Reminder, event.ReminderMinutes, event.Done, event.Color, event.CreatedAt,
		)
		return err
	})
}

// ListPlanSlots implements domain.CalendarRepository.
func (r *Repository) ListPlanSlots(ctx context.Context, userID string, date time.Time) ([]domain.PlanSlot, error) {
	out := make([]domain.PlanSlot, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT slot_id, user_id, slot_date, hour, activity, description, done
             FROM plan_slots WHERE user_id=$1 AND slot_date=$2 ORDER BY hour`,
			userID, domain.DateOf(date),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s domain.PlanSlot
			if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.Hour, &s.Activity, &s.Description, &s.Done); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	return out, err
}

// UpsertPlanSlot implements domain.CalendarRepository.
func (r *Repository) UpsertPlanSlot(ctx context.Context, slot domain.PlanSlot) error {
	return r.withUser(ctx, slot.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO plan_slots (slot_id, user_id, slot_date, hour, activity, description, done)
             VALUES ($1,$2,$3,$4,$5,$6,$7)
             ON CONFLICT (user_id, slot_date, hour) DO UPDATE SET
                activity=EXCLUDED.activity, description=EXCLUDED.description, done=EXCLUDED.done`,
			slot.ID, slot.UserID, domain.DateOf(slot.Date), slot.Hour, slot.Activity, slot.Description, slot.Done,
		)
		return err
	})
}
