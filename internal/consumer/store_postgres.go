package consumer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the consumed event log and awarded achievements in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) LogEvent(ctx context.Context, msg Message) (bool, error) {
	const stmt = `INSERT INTO journal_event_log (event_type, user_id, schema_id, schema_subject, topic, kafka_partition, kafka_offset, payload)
                  VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
                  ON CONFLICT (topic, kafka_partition, kafka_offset) DO NOTHING`
	tag, err := s.pool.Exec(ctx, stmt,
		msg.EventType,
		msg.UserID,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		[]byte(msg.Payload),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) CountEvents(ctx context.Context, userID, eventType string, filter CountFilter) (int, error) {
	query, args := countEventsQuery(userID, eventType, filter)
	var count int
	err := s.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// countEventsQuery builds the count for filter. Payload keys are bound as
// parameters; concat_ws skips missing keys so the identity is never NULL.
func countEventsQuery(userID, eventType string, filter CountFilter) (string, []interface{}) {
	args := []interface{}{userID, eventType}
	count := "COUNT(*)"
	if len(filter.DistinctBy) > 0 {
		keys := make([]string, 0, len(filter.DistinctBy))
		for _, key := range filter.DistinctBy {
			args = append(args, key)
			keys = append(keys, fmt.Sprintf("payload->>$%d::text", len(args)))
		}
		count = "COUNT(DISTINCT concat_ws(':', " + strings.Join(keys, ", ") + "))"
	}
	query := "SELECT " + count + " FROM journal_event_log WHERE user_id = $1 AND event_type = $2"
	if filter.DoneOnly {
		query += " AND (payload->>'done')::boolean IS TRUE"
	}
	return query, args
}

func (s *PostgresStore) Award(ctx context.Context, userID, code string, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO achievements (user_id, code, awarded_at) VALUES ($1,$2,$3) ON CONFLICT (user_id, code) DO NOTHING`,
		userID, code, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Achievements lists the codes held by a user, oldest first.
func (s *PostgresStore) Achievements(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT code FROM achievements WHERE user_id = $1 ORDER BY awarded_at, code`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
