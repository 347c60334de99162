package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"health-tracker/internal/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes activity events to a Kafka topic keyed by user id,
// so one user's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		WriteTimeout:           10 * time.Second,
		ReadTimeout:            10 * time.Second,
		MaxAttempts:            3,
	}
	return &KafkaPublisher{writer: writer}
}

// PublishActivityLogged implements Publisher.
func (p *KafkaPublisher) PublishActivityLogged(ctx context.Context, evt ActivityLogged) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.UserID, 10)),
		Value: payload,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to publish activity event: %w", err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return nil
}

// Close closes the Kafka writer connection.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
