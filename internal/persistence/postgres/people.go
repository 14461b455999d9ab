package postgres

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
)

const personColumns = `person_id, user_id, name, relation, health, notes, created_at`

func scanPerson(row pgx.Row) (*domain.Person, error) {
	var p domain.Person
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Relation, &p.Health, &p.Notes, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPeople implements domain.RelationshipRepository.
func (r *Repository) ListPeople(ctx context.Context, userID string) ([]domain.Person, error) {
	out := make([]domain.Person, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+personColumns+` FROM people WHERE user_id=$1 ORDER BY relation, name`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanPerson(rows)
			if err != nil {
				return err
			}
			out = append(out, *p)
		}
		return rows.Err()
	})
	return out, err
}

// GetPerson implements domain.RelationshipRepository.
func (r *Repository) GetPerson(ctx context.Context, userID, id string) (*domain.Person, error) {
	var out *domain.Person
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		p, err := scanPerson(tx.QueryRow(ctx, `SELECT `+personColumns+` FROM people WHERE user_id=$1 AND person_id=$2`, userID, id))
		out = p
		return err
	})
	return out, err
}

// SavePerson implements domain.RelationshipRepository.
func (r *Repository) SavePerson(ctx context.Context, person domain.Person) error {
	return r.withUser(ctx, person.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO people (`+personColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)
             ON CONFLICT (person_id) DO UPDATE SET
                name=EXCLUDED.name, relation=EXCLUDED.relation, health=EXCLUDED.health, notes=EXCLUDED.notes
             WHERE people.user_id = EXCLUDED.user_id`,
			person.ID, person.UserID, person.Name, string(person.Relation), person.Health, person.Notes, person.CreatedAt,
		)
		if err != nil {
			return err
		}
		return expectAffected(tag)
	})
}

// CountOwnedPeople implements domain.RelationshipRepository.
func (r *Repository) CountOwnedPeople(ctx context.Context, userID string, ids []string) (int, error) {
	var n int
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT COUNT(*) FROM people WHERE user_id=$1 AND person_id::text = ANY($2::text[])`, userID, ids).Scan(&n)
	})
	return n, err
}

const interactionSelect = `SELECT i.interaction_id, i.user_id, i.title, i.description, i.feeling, i.learning, i.interaction_date, i.kind,
        COALESCE(array_agg(ip.person_id::text ORDER BY ip.person_id) FILTER (WHERE ip.person_id IS NOT NULL), '{}') AS person_ids
    FROM interactions i LEFT JOIN interaction_people ip ON ip.interaction_id = i.interaction_id`

const interactionGroup = ` GROUP BY i.interaction_id ORDER BY i.interaction_date DESC, i.created_at DESC`

func scanInteraction(row pgx.Row) (*domain.Interaction, error) {
	var in domain.Interaction
	if err := row.Scan(&in.ID, &in.UserID, &in.Title, &in.Description, &in.Feeling, &in.Learning, &in.Date, &in.Kind, &in.PersonIDs); err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *Repository) queryInteractions(ctx context.Context, userID, query string, args ...interface{}) ([]domain.Interaction, error) {
	out := make([]domain.Interaction, 0)
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			in, err := scanInteraction(rows)
			if err != nil {
				return err
			}
			out = append(out, *in)
		}
		return rows.Err()
	})
	return out, err
}

// ListInteractions implements domain.RelationshipRepository. A limit of
// zero returns every interaction.
func (r *Repository) ListInteractions(ctx context.Context, userID string, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	return r.queryInteractions(ctx, userID, interactionSelect+` WHERE i.user_id=$1`+interactionGroup+` LIMIT $2`, userID, limit)
}

// ListInteractionsBetween implements domain.RelationshipRepository.
func (r *Repository) ListInteractionsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Interaction, error) {
	return r.queryInteractions(ctx, userID,
		interactionSelect+` WHERE i.user_id=$1 AND i.interaction_date BETWEEN $2 AND $3`+interactionGroup,
		userID, domain.DateOf(from), domain.DateOf(to))
}

// ListPersonInteractions implements domain.RelationshipRepository.
func (r *Repository) ListPersonInteractions(ctx context.Context, userID, personID string) ([]domain.Interaction, error) {
	return r.queryInteractions(ctx, userID,
		interactionSelect+` WHERE i.user_id=$1 AND EXISTS (
            SELECT 1 FROM interaction_people x WHERE x.interaction_id = i.interaction_id AND x.person_id::text = $2)`+interactionGroup,
		userID, personID)
}

// GetInteraction implements domain.RelationshipRepository.
func (r *Repository) GetInteraction(ctx context.Context, userID, id string) (*domain.Interaction, error) {
	var out *domain.Interaction
	err := r.withUser(ctx, userID, func(tx pgx.Tx) error {
		in, err := scanInteraction(tx.QueryRow(ctx, interactionSelect+` WHERE i.user_id=$1 AND i.interaction_id=$2`+interactionGroup, userID, id))
		out = in
		return err
	})
	return out, err
}

// SaveInteraction implements domain.RelationshipRepository. The set of people
// is replaced on every save.
func (r *Repository) SaveInteraction(ctx context.Context, interaction domain.Interaction) error {
	err := r.withUser(ctx, interaction.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO interactions (interaction_id, user_id, title, description, feeling, learning, interaction_date, kind)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
             ON CONFLICT (interaction_id) DO UPDATE SET
                title=EXCLUDED.title, description=EXCLUDED.description, feeling=EXCLUDED.feeling,
                learning=EXCLUDED.learning, interaction_date=EXCLUDED.interaction_date, kind=EXCLUDED.kind
             WHERE interactions.user_id = EXCLUDED.user_id`,
			interaction.ID, interaction.UserID, interaction.Title, interaction.Description, interaction.Feeling,
			interaction.Learning, domain.DateOf(interaction.Date), string(interaction.Kind),
		)
		if err != nil {
			return err
		}
		if err := expectAffected(tag); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM interaction_people WHERE interaction_id=$1`, interaction.ID); err != nil {
			return err
		}
		for _, personID := range interaction.PersonIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO interaction_people (interaction_id, person_id) VALUES ($1,$2)`,
				interaction.ID, personID,
			); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		return insertOutbox(ctx, tx, outboxRecord{
			UserID:        interaction.UserID,
			AggregateType: "interaction",
			AggregateID:   interaction.ID,
			EventType:     events.TypeInteractionSaved,
			OccurredAt:    now,
			Payload: events.InteractionSaved{
				InteractionID: interaction.ID,
				UserID:        interaction.UserID,
				Kind:          string(interaction.Kind),
				PersonCount:   len(interaction.PersonIDs),
				OccurredAt:    now,
			},
		})
	})
	if err != nil {
		return err
	}
	recordWrite(events.TypeInteractionSaved)
	return nil
}
