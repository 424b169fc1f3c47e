package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/you/marketsvc/domain"
)

// MessageWriter is the part of *kafka.Writer the mirror uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMirror appends every order event to a topic keyed by restaurant id,
// so one restaurant's events stay ordered within a partition.
type KafkaMirror struct {
	Writer MessageWriter
}

// NewKafkaWriter builds the writer for brokers and topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
}

// NewKafkaMirror creates a mirror over writer
func NewKafkaMirror(writer MessageWriter) *KafkaMirror {
	return &KafkaMirror{Writer: writer}
}

// Forward writes event to the topic
func (m *KafkaMirror) Forward(ctx context.Context, event *domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return m.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RestaurantID),
		Value: payload,
		Time:  event.Timestamp,
	})
}

// Close flushes and closes the writer
func (m *KafkaMirror) Close() error {
	return m.Writer.Close()
}
