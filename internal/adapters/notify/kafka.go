package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"guestrsvp/internal/domain"
)

const activityTypeHeader = "activity_type"

// messageWriter is the part of *kafka.Writer the notifier uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes one message per recorded RSVP, keyed by event id so an event's
// activity stays ordered within a partition.
type KafkaNotifier struct {
	writer messageWriter
}

// NewKafkaNotifier returns a notifier writing to topic on the given brokers.
func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			BatchSize:              1,
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Notify implements domain.RSVPNotifier.
func (n *KafkaNotifier) Notify(ctx context.Context, activity domain.RSVPActivity) error {
	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("could not marshal rsvp activity: %w", err)
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(activity.EventID),
		Value: data,
		Time:  activity.RecordedAt,
		Headers: []kafka.Header{
			{Key: activityTypeHeader, Value: []byte("rsvp." + string(activity.Status))},
		},
	}); err != nil {
		return fmt.Errorf("could not publish rsvp activity: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// Noop discards activity. It is used when no brokers are configured.
type Noop struct{}

func (Noop) Notify(context.Context, domain.RSVPActivity) error { return nil }
func (Noop) Close() error                                      { return nil }

// New returns a Kafka notifier, or Noop when brokers is empty.
func New(brokers []string, topic string) domain.RSVPNotifier {
	if len(brokers) == 0 {
		return Noop{}
	}
	return NewKafkaNotifier(brokers, topic)
}
