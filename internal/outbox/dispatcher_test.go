package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"example.com/prosoche/internal/events"
)

type write struct {
	topic    string
	messages []kafka.Message
}

type stubProducer struct {
	writes []write
	err    error
}

func (p *stubProducer) WriteMessages(_ context.Context, topic string, msgs ...kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.writes = append(p.writes, write{topic: topic, messages: msgs})
	return nil
}

type stubRegistry struct {
	id    int
	calls int
	err   error
}

func (r *stubRegistry) EnsureSchema(context.Context, string, string) (int, error) {
	r.calls++
	return r.id, r.err
}

func newTestDispatcher(producer messageWriter, registry schemaRegistrar) *Dispatcher {
	return &Dispatcher{producer: producer, registry: registry, logger: zap.NewNop()}
}

func headers(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestWireFormatRoundTrip(t *testing.T) {
	payload := []byte(`{"entry_id":"e1"}`)
	frame := encodeWireFormat(42, payload)

	require.Len(t, frame, 5+len(payload))
	assert.Equal(t, byte(0), frame[0])

	id, body, err := DecodeWireFormat(frame)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, payload, body)

	_, _, err = DecodeWireFormat([]byte{1, 0, 0, 0, 1})
	assert.Error(t, err)
	_, _, err = DecodeWireFormat([]byte{0, 1})
	assert.Error(t, err)
}

func TestDeliverAddsHeadersAndCachesSchema(t *testing.T) {
	producer := &stubProducer{}
	registry := &stubRegistry{id: 7}
	d := newTestDispatcher(producer, registry)

	messages := []Message{
		{EventID: 1, UserID: "u1", EventType: events.TypeEntrySaved, Topic: events.Topic, SchemaSubject: "journal_events-value", PartitionKey: "u1", Payload: json.RawMessage(`{"a":1}`)},
		{EventID: 2, UserID: "u2", EventType: events.TypeHabitToggled, Topic: events.Topic, SchemaSubject: "journal_events-value", PartitionKey: "u2", Payload: json.RawMessage(`{"b":2}`)},
	}

	require.NoError(t, d.deliver(context.Background(), messages))

	require.Len(t, producer.writes, 1)
	assert.Equal(t, events.Topic, producer.writes[0].topic)
	require.Len(t, producer.writes[0].messages, 2)
	assert.Equal(t, 1, registry.calls)

	first := producer.writes[0].messages[0]
	assert.Equal(t, []byte("u1"), first.Key)
	assert.Equal(t, map[string]string{
		HeaderEventType:     events.TypeEntrySaved,
		HeaderUserID:        "u1",
		HeaderSchemaSubject: "journal_events-value",
	}, headers(first))

	id, body, err := DecodeWireFormat(first.Value)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.JSONEq(t, `{"a":1}`, string(body))
}

func TestDeliverRejectsUnknownEventType(t *testing.T) {
	d := newTestDispatcher(&stubProducer{}, &stubRegistry{id: 1})
	err := d.deliver(context.Background(), []Message{{EventType: "unknown", Topic: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown")
}

func TestDeliverPropagatesProducerAndRegistryErrors(t *testing.T) {
	msg := Message{EventType: events.TypeVitalityTracked, Topic: events.Topic, SchemaSubject: "s", Payload: json.RawMessage(`{}`)}

	d := newTestDispatcher(&stubProducer{err: errors.New("kafka down")}, &stubRegistry{id: 1})
	require.EqualError(t, d.deliver(context.Background(), []Message{msg}), "kafka down")

	d = newTestDispatcher(&stubProducer{}, &stubRegistry{err: errors.New("registry down")})
	require.EqualError(t, d.deliver(context.Background(), []Message{msg}), "registry down")
}

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	m := NewDLQManager(nil, 0, 0, nil)
	assert.Equal(t, DefaultDLQMaxRetries, m.maxRetries)

	assert.Equal(t, time.Minute, m.backoffDelay(1))
	assert.Equal(t, 2*time.Minute, m.backoffDelay(2))
	assert.Equal(t, 16*time.Minute, m.backoffDelay(5))
	assert.Equal(t, time.Hour, m.backoffDelay(10))
	assert.Equal(t, time.Hour, m.backoffDelay(64))
}

func TestSchemaRegistryRegistersMissingSubject(t *testing.T) {
	var registered string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/subjects/journal_events-value/versions/latest":
			http.NotFound(w, r)
		case r.Method == http.MethodPost && r.URL.Path == "/subjects/journal_events-value/versions":
			body, _ := io.ReadAll(r.Body)
			registered = string(body)
			_, _ = w.Write([]byte(`{"id":11}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL + "/")
	id, err := client.EnsureSchema(context.Background(), "journal_events-value", journalEventSchema)
	require.NoError(t, err)
	assert.Equal(t, 11, id)
	assert.Contains(t, registered, `"schemaType":"JSON"`)
}

func TestSchemaRegistryReturnsLatestAndSurfacesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/subjects/ok/versions/latest" {
			_, _ = w.Write([]byte(`{"id":3}`))
			return
		}
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL)
	id, err := client.EnsureSchema(context.Background(), "ok", "{}")
	require.NoError(t, err)
	assert.Equal(t, 3, id)

	_, err = client.EnsureSchema(context.Background(), "broken", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSchemaCatalogCoversEveryEventType(t *testing.T) {
	for _, eventType := range []string{events.TypeEntrySaved, events.TypeHabitToggled, events.TypeVitalityTracked, events.TypeInteractionSaved} {
		entry, ok := schemaCatalog[eventType]
		require.True(t, ok, eventType)
		assert.True(t, json.Valid([]byte(entry.Schema)), eventType)
	}
}
