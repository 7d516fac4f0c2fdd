package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-explorer/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 8, 15, 9, 30, 0, 0, time.UTC)
	event := domain.RainfallQueryEvent{
		ID:          "evt-1",
		QueryKey:    "climatology-0011223344556677",
		Mode:        domain.ModeClimatology,
		Coordinate:  domain.GeoCoordinate{Latitude: 3.139, Longitude: 101.687},
		Rows:        12,
		Available:   11,
		Annual:      domain.Present(7.2),
		ProcessedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("climatology-0011223344556677"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("rainfall_query"), msg.Headers[0].Value)
	assert.Equal(t, "mode", msg.Headers[1].Key)
	assert.Equal(t, []byte("climatology"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var decoded domain.RainfallQueryEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestSerializeToMessage_MissingAnnualIsNull(t *testing.T) {
	msg, err := serializeToMessage(domain.RainfallQueryEvent{ID: "evt-2", Mode: domain.ModeDaily})
	require.NoError(t, err)
	assert.Contains(t, string(msg.Value), `"annual_mm":null`)
}

type fakeWriter struct {
	failures int
	calls    int
	msgs     []kafkago.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("leader not available")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func newTestWriter(fw *fakeWriter) *Writer {
	return &Writer{writer: fw, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestPublish_WritesKeyedMessage(t *testing.T) {
	fw := &fakeWriter{}
	w := newTestWriter(fw)

	err := w.Publish(context.Background(), domain.RainfallQueryEvent{ID: "evt-3", QueryKey: "daily-aa", Mode: domain.ModeDaily})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, []byte("daily-aa"), fw.msgs[0].Key)
}

func TestPublish_FailureIsNotRetried(t *testing.T) {
	fw := &fakeWriter{failures: 1}
	w := newTestWriter(fw)

	err := w.Publish(context.Background(), domain.RainfallQueryEvent{ID: "evt-4", Mode: domain.ModeDaily})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evt-4")
	assert.Contains(t, err.Error(), "leader not available")
	assert.Equal(t, 1, fw.calls)
	assert.Empty(t, fw.msgs)
}
