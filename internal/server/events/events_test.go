package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/carpool/internal/logging"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() LedgerEvent {
	seats := 1
	return LedgerEvent{
		Type:           RequestAccepted,
		RequestID:      "q1",
		RideID:         "r1",
		PassengerID:    "p1",
		HostID:         "h1",
		Status:         "accepted",
		AvailableSeats: &seats,
		OccurredAt:     time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_KeysByRide(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, timeout: time.Second}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "r1", string(w.msgs[0].Key))
	assert.Equal(t, "request.accepted", string(w.msgs[0].Headers[0].Value))

	var got LedgerEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, sampleEvent(), got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker down")}, timeout: time.Second}

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaPublisher(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "carpool.ledger")
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "carpool.ledger", w.Topic)
	assert.NoError(t, p.Close())
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	p := NewLogPublisher(log)
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.NoError(t, p.Close())

	out := buf.String()
	assert.Contains(t, out, "type=request.accepted")
	assert.Contains(t, out, "module=events")
	assert.Contains(t, out, "available_seats=1")
}
