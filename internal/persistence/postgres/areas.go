package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"example.com/prosoche/internal/domain"
)

const areaScoreSelect = `SELECT s.area_score_id, s.user_id, s.priority, s.score, s.updated_at,
        a.area_id, a.name, a.description, a.icon, a.color, a.active
    FROM area_scores s JOIN life_areas a ON a.area_id = s.area_id`

func scanAreaScore(row pgx.Row) (*domain.AreaScore, error) {
	var s domain.AreaScore
	if err := row.Scan(&s.ID, &s.UserID, &s.Priority, &s.Score, &s.UpdatedAt,
		&s.Area.ID, &s.Area.Name, &s.Area.Description, &s.Area.Icon, &s.Area.Color, &s.Area.Active); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListAreaScores implements domain.AreaRepository.
func (r *Repository) ListAreaScores(ctx context.Context, userID string) ([]domain.AreaScore, error) {
	out := make([]domain.AreaScore, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, areaScoreSelect+` WHERE s.user_id=$1 ORDER BY s.score DESC, a.name`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			s, err := scanAreaScore(rows)
			if err != nil {
				return err
			}
			out = append(out, *s)
		}
		return rows.Err()
	})
	return out, err
}

// GetAreaScore implements domain.AreaRepository.
func (r *Repository) GetAreaScore(ctx context.Context, userID, id string) (*domain.AreaScore, error) {
	var out *domain.AreaScore
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		s, err := scanAreaScore(tx.QueryRow(ctx, areaScoreSelect+` WHERE s.user_id=$1 AND s.area_score_id=$2`, userID, id))
		out = s
		return err
	})
	return out, err
}

// UpdateAreaScore implements domain.AreaRepository.
func (r *Repository) UpdateAreaScore(ctx context.Context, score domain.AreaScore) error {
	return r.withUser(ctx, score.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE area_scores SET priority=$3, score=$4, updated_at=$5 WHERE area_score_id=$1 AND user_id=$2`,
			score.ID, score.UserID, string(score.Priority), score.Score, score.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}

// AddAreaScore implements domain.AreaRepository. The life area is shared
// between users and matched by name.
func (r *Repository) AddAreaScore(ctx context.Context, area domain.LifeArea, score domain.AreaScore) (*domain.AreaScore, error) {
	err := r.withUser(ctx, score.UserID, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO life_areas (area_id, name, description, icon, color, active)
             VALUES ($1,$2,$3,$4,$5,$6)
             ON CONFLICT (name) DO UPDATE SET description = CASE
                 WHEN EXCLUDED.description <> '' THEN EXCLUDED.description
                 ELSE life_areas.description END
             RETURNING area_id, name, description, icon, color, active`,
			area.ID, area.Name, area.Description, area.Icon, area.Color, area.Active,
		).Scan(&score.Area.ID, &score.Area.Name, &score.Area.Description, &score.Area.Icon, &score.Area.Color, &score.Area.Active); err != nil {
			return err
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO area_scores (area_score_id, user_id, area_id, priority, score, updated_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			score.ID, score.UserID, score.Area.ID, string(score.Priority), score.Score, score.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &score, nil
}

const quarterColumns = `q.quarter_id, q.area_score_id, q.label, q.year, q.state, q.objectives, q.action_plan, q.start_date, q.end_date, q.results`

// ListQuarters implements domain.AreaRepository.
func (r *Repository) ListQuarters(ctx context.Context, userID, areaScoreID string) ([]domain.Quarter, error) {
	out := make([]domain.Quarter, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+quarterColumns+`
             FROM quarters q JOIN area_scores s ON s.area_score_id = q.area_score_id
             WHERE s.user_id=$1 AND q.area_score_id=$2
             ORDER BY q.year DESC, q.label DESC`,
			userID, areaScoreID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var q domain.Quarter
			if err := rows.Scan(&q.ID, &q.AreaScoreID, &q.Label, &q.Year, &q.State, &q.Objectives, &q.ActionPlan, &q.StartDate, &q.EndDate, &q.Results); err != nil {
				return err
			}
			out = append(out, q)
		}
		return rows.Err()
	})
	return out, err
}

// SaveQuarter implements domain.AreaRepository.
func (r *Repository) SaveQuarter(ctx context.Context, userID string, quarter domain.Quarter) error {
	return r.withUser(ctx, userID, func(tx pgx.Tx) error {
		var owned bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM area_scores WHERE area_score_id=$1 AND user_id=$2)`, quarter.AreaScoreID, userID).Scan(&owned); err != nil {
			return err
		}
		if !owned {
			return domain.ErrNotFound
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO quarters (quarter_id, area_score_id, label, year, state, objectives, action_plan, start_date, end_date, results)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
             ON CONFLICT (area_score_id, label, year) DO UPDATE SET
                state=EXCLUDED.state, objectives=EXCLUDED.objectives, action_plan=EXCLUDED.action_plan,
                start_date=EXCLUDED.start_date, end_date=EXCLUDED.end_date, results=EXCLUDED.results`,
			quarter.ID, quarter.AreaScoreID, quarter.Label, quarter.Year, string(quarter.State), quarter.Objectives,
			quarter.ActionPlan, domain.DateOf(quarter.StartDate), domain.DateOf(quarter.EndDate), quarter.Results,
		)
		return err
	})
}

const exerciseColumns = `exercise_id, user_id, name, description, instructions, state, completed_at, reflections, sort_order`

func scanExercise(row pgx.Row) (*domain.Exercise, error) {
	var e domain.Exercise
	if err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Description, &e.Instructions, &e.State, &e.CompletedAt, &e.Reflections, &e.Order); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExercises implements domain.ExerciseRepository.
func (r *Repository) ListExercises(ctx context.Context, userID string) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE user_id=$1 ORDER BY sort_order`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanExercise(rows)
			if err != nil {
				return err
			}
			out = append(out, *e)
		}
		return rows.Err()
	})
	return out, err
}

// GetExercise implements domain.ExerciseRepository.
func (r *Repository) GetExercise(ctx context.Context, userID, id string) (*domain.Exercise, error) {
	var out *domain.Exercise
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		e, err := scanExercise(tx.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE user_id=$1 AND exercise_id=$2`, userID, id))
		out = e
		return err
	})
	return out, err
}

// SaveExercise implements domain.ExerciseRepository.
func (r *Repository) SaveExercise(ctx context.Context, exercise domain.Exercise) error {
	return r.withUser(ctx, exercise.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO exercises (`+exerciseColumns+`)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
             ON CONFLICT (exercise_id) DO UPDATE SET
                name=EXCLUDED.name, description=EXCLUDED.description, instructions=EXCLUDED.instructions,
                state=EXCLUDED.state, completed_at=EXCLUDED.completed_at, reflections=EXCLUDED.reflections,
                sort_order=EXCLUDED.sort_order
             WHERE exercises.user_id = EXCLUDED.user_id`,
			exercise.ID, exercise.UserID, exercise.Name, exercise.Description, exercise.Instructions,
			string(exercise.State), exercise.CompletedAt, exercise.Reflections, exercise.Order,
		)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}

const knowledgeColumns = `item_id, user_id, title, category, state, topic, rating, author, url, notes, start_date, end_date, created_at`

// ListKnowledge implements domain.KnowledgeRepository.
func (r *Repository) ListKnowledge(ctx context.Context, userID string, filter domain.KnowledgeFilter) ([]domain.KnowledgeItem, error) {
	var (
		query strings.Builder
		args  = []interface{}{userID}
	)
	query.WriteString(`SELECT ` + knowledgeColumns + ` FROM knowledge_items WHERE user_id=$1`)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query.WriteString(` AND category=$2`)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, likePattern(search))
		n := len(args)
		query.WriteString(` AND (title ILIKE $` + strconv.Itoa(n) + ` OR author ILIKE $` + strconv.Itoa(n) + ` OR topic ILIKE $` + strconv.Itoa(n) + `)`)
	}
	query.WriteString(` ORDER BY created_at DESC`)

	out := make([]domain.KnowledgeItem, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query.String(), args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var k domain.KnowledgeItem
			if err := rows.Scan(&k.ID, &k.UserID, &k.Title, &k.Category, &k.State, &k.Topic, &k.Rating, &k.Author,
				&k.URL, &k.Notes, &k.StartDate, &k.EndDate, &k.CreatedAt); err != nil {
				return err
			}
			out = append(out, k)
		}
		return rows.Err()
	})
	return out, err
}

// CountKnowledge implements domain.KnowledgeRepository.
func (r *Repository) CountKnowledge(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_items WHERE user_id=$1`, userID).Scan(&n)
	})
	return n, err
}

// CreateKnowledge implements domain.KnowledgeRepository.
func (r *Repository) CreateKnowledge(ctx context.Context, item domain.KnowledgeItem) error {
	return r.withUser(ctx, item.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO knowledge_items (`+knowledgeColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			item.ID, item.UserID, item.Title, string(item.Category), string(item.State), item.Topic, string(item.Rating),
			item.Author, item.URL, item.Notes, item.StartDate, item.EndDate, item.CreatedAt,
		)
		return err
	})
}
