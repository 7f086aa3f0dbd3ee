package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/google-geocoding/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://maps.googleapis.com/maps/api/geocode/json?key=k&address=Brooklyn"

type recordingWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (r *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func (r *recordingWriter) Close() error {
	r.closed = true
	return nil
}

func testWriter(inner messageWriter) *Writer {
	return &Writer{writer: inner, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func headerMap(msg kafkago.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	event := AuditEvent{Kind: EventCacheUse, URL: testURL, OccurredAt: now}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte(testURL), msg.Key)
	assert.JSONEq(t, `{"kind":"cache_use","url":"`+testURL+`","occurred_at":"2024-04-26T15:10:00Z"}`, string(msg.Value))
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("cache_use"), msg.Headers[0].Value)
	assert.Equal(t, "occurred_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestWriter_Insert(t *testing.T) {
	inner := &recordingWriter{}
	w := testWriter(inner)
	record := domain.NewAuditRecord(true, testURL, map[string]string{"key": "k"}, []byte(`{"status":"OK","results":[]}`))

	require.NoError(t, w.Insert(context.Background(), record))

	require.Len(t, inner.msgs, 1)
	msg := inner.msgs[0]
	assert.Equal(t, testURL, string(msg.Key))
	assert.Equal(t, EventRequest, headerMap(msg)["event_kind"])

	var got AuditEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.NotNil(t, got.Record)
	assert.Equal(t, record.ID, got.Record.ID)
	assert.True(t, got.Record.Successful)
	assert.JSONEq(t, `{"status":"OK","results":[]}`, string(got.Record.Response))
}

func TestWriter_IncrementCacheUses(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	inner := &recordingWriter{}
	w := testWriter(inner)

	require.NoError(t, w.IncrementCacheUses(context.Background(), testURL))

	require.Len(t, inner.msgs, 1)
	var got AuditEvent
	require.NoError(t, json.Unmarshal(inner.msgs[0].Value, &got))
	assert.Equal(t, EventCacheUse, got.Kind)
	assert.Equal(t, testURL, got.URL)
	assert.Nil(t, got.Record)
	assert.Equal(t, fixed, got.OccurredAt)
}

func TestWriter_PublishError(t *testing.T) {
	inner := &recordingWriter{err: errors.New("broker unavailable")}
	w := testWriter(inner)

	err := w.IncrementCacheUses(context.Background(), testURL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish cache_use event")
}

func TestWriter_Close(t *testing.T) {
	inner := &recordingWriter{}

	require.NoError(t, testWriter(inner).Close())
	assert.True(t, inner.closed)
}
