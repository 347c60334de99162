package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-tracker/internal/domain"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishActivityLogged(t *testing.T) {
	writer := &recordingWriter{}
	p := &KafkaPublisher{writer: writer}

	started := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	evt := NewActivityLogged(domain.Activity{
		ID:          11,
		Description: "From Bag End to Bree",
		Duration:    131.2,
		Calories:    525,
		Started:     started,
		UserID:      3,
		Steps:       13120,
		DistanceKm:  10,
	}, SourceMap)

	require.NoError(t, p.PublishActivityLogged(context.Background(), evt))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "3", string(msg.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, float64(11), decoded["activity_id"])
	assert.Equal(t, float64(3), decoded["user_id"])
	assert.Equal(t, "map", decoded["source"])
	assert.Equal(t, float64(13120), decoded["steps"])
	assert.Equal(t, "2024-06-01T08:00:00Z", decoded["started_at"])

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteFailure(t *testing.T) {
	broker := errors.New("broker unavailable")
	p := &KafkaPublisher{writer: &recordingWriter{err: broker}}

	err := p.PublishActivityLogged(context.Background(), ActivityLogged{UserID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, broker)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishActivityLogged(context.Background(), ActivityLogged{}))
	assert.NoError(t, p.Close())
}
