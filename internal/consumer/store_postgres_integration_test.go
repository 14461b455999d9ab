//go:build integration

package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/prosoche/internal/events"
	"example.com/prosoche/internal/persistence/postgres"
)

func setupStore(t *testing.T, ctx context.Context) *PostgresStore {
	t.Helper()
	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("prosoche"),
		postgrescontainer.WithUsername("prosoche"),
		postgrescontainer.WithPassword("prosoche"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool, nil)
	require.NoError(t, err)
	return NewPostgresStore(pool)
}

func TestPostgresStoreAwardsDistinctEntriesAndHabitDays(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	handler := NewAchievementHandler(store, nil)

	offset := int64(0)
	send := func(eventType, payload string) {
		offset++
		require.NoError(t, handler.Handle(ctx, Message{
			Topic: events.Topic, Offset: offset, EventType: eventType, UserID: "u1", Payload: json.RawMessage(payload),
		}))
	}

	for i := 0; i < 7; i++ {
		send(events.TypeEntrySaved, `{"entry_id":"e1","date":"2025-03-01"}`)
	}
	for i := 0; i < 30; i++ {
		send(events.TypeHabitToggled, `{"habit_id":"h1","day":1,"done":true}`)
	}
	codes, err := store.Achievements(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{AchievementFirstEntry}, codes)

	for day := 2; day <= 7; day++ {
		send(events.TypeEntrySaved, fmt.Sprintf(`{"entry_id":"e%d","date":"2025-03-%02d"}`, day, day))
	}
	for day := 2; day <= 30; day++ {
		send(events.TypeHabitToggled, fmt.Sprintf(`{"habit_id":"h1","day":%d,"done":true}`, day))
	}
	codes, err = store.Achievements(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{AchievementFirstEntry, AchievementSevenEntries, AchievementHabitStreak}, codes)
}
