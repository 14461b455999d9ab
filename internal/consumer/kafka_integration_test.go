//go:build integration

package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	kafkacontainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"example.com/prosoche/internal/events"
	"example.com/prosoche/internal/outbox"
)

func TestKafkaJournalEventsAwardAchievements(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkacontainer.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{Topic: events.Topic, NumPartitions: 1, ReplicationFactor: 1}))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     "prosoche-integration",
		Topic:       events.Topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	store := newMemoryStore()
	proc := NewProcessor(reader, NewAchievementHandler(store, nil))

	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = proc.Run(consumerCtx) }()

	producer := outbox.NewKafkaProducer(brokers)
	defer producer.Close()

	userID := uuid.NewString()
	msg := journalMessage(0, events.TypeEntrySaved, userID, `{"entry_id":"e1","user_id":"`+userID+`"}`)
	msg.Topic, msg.Offset, msg.Key = "", 0, []byte(userID)
	require.NoError(t, producer.WriteMessages(ctx, events.Topic, msg))

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		for _, code := range store.awards[userID] {
			if code == AchievementFirstEntry {
				return true
			}
		}
		return false
	}, time.Minute, 500*time.Millisecond)
}
