package consumer

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/prosoche/internal/events"
	"example.com/prosoche/internal/outbox"
)

func frame(schemaID int, payload string) []byte {
	buf := make([]byte, 5, 5+len(payload))
	binary.BigEndian.PutUint32(buf[1:], uint32(schemaID))
	return append(buf, payload...)
}

func journalMessage(offset int64, eventType, userID, payload string) kafka.Message {
	return kafka.Message{
		Topic:     events.Topic,
		Partition: 0,
		Offset:    offset,
		Value:     frame(9, payload),
		Time:      time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: outbox.HeaderEventType, Value: []byte(eventType)},
			{Key: outbox.HeaderUserID, Value: []byte(userID)},
			{Key: outbox.HeaderSchemaSubject, Value: []byte(events.Topic + "-value")},
		},
	}
}

func TestProcessorCommitsMessages(t *testing.T) {
	msg := journalMessage(12, events.TypeEntrySaved, "u1", `{"entry_id":"e1"}`)

	reader := &stubReader{msgs: []kafka.Message{msg}, errAfter: context.Canceled}
	handler := &RecordingHandler{}
	proc := NewProcessor(reader, handler)

	err := proc.Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, handler.count)
	require.Equal(t, 1, reader.commitCount)

	assert.Equal(t, events.TypeEntrySaved, handler.last.EventType)
	assert.Equal(t, "u1", handler.last.UserID)
	assert.Equal(t, 9, handler.last.SchemaID)
	assert.Equal(t, int64(12), handler.last.Offset)
	assert.JSONEq(t, `{"entry_id":"e1"}`, string(handler.last.Payload))
}

func TestProcessorSkipsUndecodableMessages(t *testing.T) {
	noHeader := journalMessage(1, events.TypeEntrySaved, "u1", `{}`)
	noHeader.Headers = nil
	badFrame := journalMessage(2, events.TypeEntrySaved, "u1", `{}`)
	badFrame.Value = []byte(`{}`)

	reader := &stubReader{msgs: []kafka.Message{noHeader, badFrame}, errAfter: context.Canceled}
	handler := &RecordingHandler{}

	err := NewProcessor(reader, handler).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, handler.count)
	assert.Equal(t, 2, reader.commitCount)
}

func TestProcessorLeavesFailedMessagesUncommitted(t *testing.T) {
	msg := journalMessage(3, events.TypeHabitToggled, "u1", `{"done":true}`)
	reader := &stubReader{msgs: []kafka.Message{msg}, errAfter: context.Canceled}
	handler := &RecordingHandler{err: errors.New("store down")}

	err := NewProcessor(reader, handler).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, handler.count)
	assert.Zero(t, reader.commitCount)
}

func TestProcessorStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &stubReader{msgs: []kafka.Message{journalMessage(1, events.TypeEntrySaved, "u", `{}`)}}
	err := NewProcessor(reader, &RecordingHandler{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, reader.idx)
}

func TestRunAllTreatsCancellationAsCleanExit(t *testing.T) {
	first := NewProcessor(&stubReader{errAfter: context.Canceled}, &RecordingHandler{})
	second := NewProcessor(&stubReader{errAfter: context.Canceled}, &RecordingHandler{})
	require.NoError(t, RunAll(context.Background(), first, second))
}

type stubReader struct {
	msgs        []kafka.Message
	idx         int
	commitCount int
	errAfter    error
}

func (r *stubReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if r.idx >= len(r.msgs) {
		return kafka.Message{}, r.errAfter
	}
	msg := r.msgs[r.idx]
	r.idx++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	r.commitCount++
	return nil
}

func (r *stubReader) Close() error { return nil }

type RecordingHandler struct {
	count int
	last  Message
	err   error
}

var _ Handler = (*RecordingHandler)(nil)

func (h *RecordingHandler) Handle(_ context.Context, msg Message) error {
	h.count++
	h.last = msg
	return h.err
}
