// Package kafkapublisher publishes committed events to a Kafka topic.
//
// Messages are keyed by aggregate id, so all events of one aggregate land on the same partition
// and keep their append order.
package kafkapublisher

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
)

// Header keys carried by every message.
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderEventID       = "event_id"
	HeaderVersion       = "version"
	HeaderRecordedAt    = "recorded_at"
	HeaderMessageID     = "message_id"
	HeaderCausationID   = "causation_id"
	HeaderCorrelationID = "correlation_id"
)

var (
	ErrNoBrokers  = errors.New("at least one kafka broker is required")
	ErrEmptyTopic = errors.New("kafka topic must not be empty")
	ErrNilWriter  = errors.New("kafka writer must not be nil")
)

// Writer is the part of *kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config configures the kafka.Writer created by NewPublisher.
type Config struct {
	Brokers      []string
	Topic        string
	ClientID     string
	MaxAttempts  int
	BatchTimeout time.Duration
}

// Publisher implements shell.Publisher on top of a kafka writer.
type Publisher struct {
	writer Writer
	topic  string
}

// NewPublisher creates a synchronous writer that waits for all in-sync replicas.
func NewPublisher(config Config) (*Publisher, error) {
	if len(config.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	if config.Topic == "" {
		return nil, ErrEmptyTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		MaxAttempts:  max(config.MaxAttempts, 1),
		BatchTimeout: config.BatchTimeout,
		Transport: &kafka.Transport{
			ClientID: config.ClientID,
		},
	}

	return &Publisher{writer: writer, topic: config.Topic}, nil
}

// NewPublisherWithWriter wraps an existing writer, e.g. one shared with other producers.
func NewPublisherWithWriter(writer Writer, topic string) (*Publisher, error) {
	if writer == nil {
		return nil, ErrNilWriter
	}

	if topic == "" {
		return nil, ErrEmptyTopic
	}

	return &Publisher{writer: writer, topic: topic}, nil
}

// Publish writes all messages in one call, in the given order.
func (p *Publisher) Publish(ctx context.Context, messages ...shell.Message) error {
	if len(messages) == 0 {
		return nil
	}

	kafkaMessages := make([]kafka.Message, 0, len(messages))
	for _, message := range messages {
		kafkaMessages = append(kafkaMessages, p.toKafkaMessage(message))
	}

	return p.writer.WriteMessages(ctx, kafkaMessages...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// toKafkaMessage leaves Time zero when the store's timestamp is unknown, the writer then stamps it.
func (p *Publisher) toKafkaMessage(message shell.Message) kafka.Message {
	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(message.EventType)},
		{Key: HeaderAggregateType, Value: []byte(message.AggregateType)},
		{Key: HeaderEventID, Value: []byte(message.EventID.String())},
		{Key: HeaderVersion, Value: []byte(strconv.Itoa(message.Version))},
		{Key: HeaderMessageID, Value: []byte(message.Metadata.MessageID)},
		{Key: HeaderCausationID, Value: []byte(message.Metadata.CausationID)},
		{Key: HeaderCorrelationID, Value: []byte(message.Metadata.CorrelationID)},
	}

	if !message.RecordedAt.IsZero() {
		headers = append(headers, kafka.Header{Key: HeaderRecordedAt, Value: []byte(message.RecordedAt.UTC().Format(time.RFC3339Nano))})
	}

	return kafka.Message{
		Topic:   p.topic,
		Key:     []byte(message.AggregateID.String()),
		Value:   message.Payload,
		Time:    message.RecordedAt,
		Headers: headers,
	}
}
