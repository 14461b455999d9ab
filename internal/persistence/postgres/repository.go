// Package postgres provides Postgres-backed persistence for the journal and
// its transactional outbox.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/prosoche/internal/domain"
	"example.com/prosoche/internal/events"
	"example.com/prosoche/internal/observability"
)

// Repository implements domain.Repository on a pgx pool. Every call runs in
// its own transaction with app.user_id set for row level security.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ domain.Repository = (*Repository)(nil)

func (r *Repository) withUser(ctx context.Context, userID string, fn func(pgx.Tx) error) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT set_config('app.user_id', $1, true)", userID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return mapError(err)
	}
	return tx.Commit(ctx)
}

// mapError converts driver errors into domain sentinels.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case "22P02":
			// Malformed UUIDs never match a row.
			return domain.ErrNotFound
		}
	}
	return err
}

func expectAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// outboxRecord is a domain event waiting to be written to the outbox.
type outboxRecord struct {
	UserID        string
	AggregateType string
	AggregateID   string
	EventType     string
	OccurredAt    time.Time
	Payload       interface{}
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	SchemaSubject  string
	PartitionKeyFn func(outboxRecord) string
}

func byUser(rec outboxRecord) string { return rec.UserID }

var eventCatalog = map[string]EventMetadata{
	events.TypeEntrySaved:       {Topic: events.Topic, SchemaSubject: events.Topic + "-value", PartitionKeyFn: byUser},
	events.TypeHabitToggled:     {Topic: events.Topic, SchemaSubject: events.Topic + "-value", PartitionKeyFn: byUser},
	events.TypeVitalityTracked:  {Topic: events.Topic, SchemaSubject: events.Topic + "-value", PartitionKeyFn: byUser},
	events.TypeInteractionSaved: {Topic: events.Topic, SchemaSubject: events.Topic + "-value", PartitionKeyFn: byUser},
}

func insertOutbox(ctx context.Context, tx pgx.Tx, rec outboxRecord) error {
	body, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[rec.EventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", rec.EventType)
	}

	// The row shares the write's transaction: a rolled-back write leaves no
	// event and every committed write leaves exactly one.
	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		rec.UserID,
		rec.AggregateType,
		rec.AggregateID,
		rec.EventType,
		meta.Topic,
		meta.SchemaSubject,
		meta.PartitionKeyFn(rec),
		body,
	)
	return err
}

func marshalObjectives(objectives [3]domain.Objective) ([]byte, error) {
	return json.Marshal(objectives)
}

func unmarshalObjectives(raw []byte) ([3]domain.Objective, error) {
	var out [3]domain.Objective
	if len(raw) == 0 {
		return out, nil
	}
	var list []domain.Objective
	if err := json.Unmarshal(raw, &list); err != nil {
		return out, err
	}
	copy(out[:], list)
	return out, nil
}

// likePattern escapes s for a case-insensitive substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func recordWrite(eventType string) {
	observability.RecordJournalWrite(eventType)
}
