package kafkapublisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell"
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/shell/kafkapublisher"
)

type writerSpy struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *writerSpy) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}

	w.messages = append(w.messages, msgs...)

	return nil
}

func (w *writerSpy) Close() error {
	w.closed = true
	return nil
}

func headerValue(message kafka.Message, key string) string {
	for _, header := range message.Headers {
		if header.Key == key {
			return string(header.Value)
		}
	}

	return ""
}

func Test_Publish_WritesKeyedMessagesInOrder(t *testing.T) {
	// setup
	writer := &writerSpy{}
	publisher, err := kafkapublisher.NewPublisherWithWriter(writer, "zeus.people.events")
	require.NoError(t, err)

	aggregateID := uuid.New()
	recordedAt := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	messages := []shell.Message{
		{
			EventType:     "AcademicRegistered",
			AggregateType: "Academic",
			AggregateID:   aggregateID,
			EventID:       uuid.New(),
			Version:       1,
			RecordedAt:    recordedAt,
			Payload:       []byte(`{"Version":1}`),
			Metadata:      shell.EventMetadata{MessageID: "m1", CausationID: "c1", CorrelationID: "r1"},
		},
		{
			EventType:     "AcademicTenureGranted",
			AggregateType: "Academic",
			AggregateID:   aggregateID,
			EventID:       uuid.New(),
			Version:       2,
			Payload:       []byte(`{"Version":2}`),
		},
	}

	// act
	err = publisher.Publish(context.Background(), messages...)

	// assert
	require.NoError(t, err)
	require.Len(t, writer.messages, 2)

	first := writer.messages[0]
	assert.Equal(t, "zeus.people.events", first.Topic)
	assert.Equal(t, aggregateID.String(), string(first.Key))
	assert.Equal(t, `{"Version":1}`, string(first.Value))
	assert.Equal(t, "AcademicRegistered", headerValue(first, kafkapublisher.HeaderEventType))
	assert.Equal(t, "Academic", headerValue(first, kafkapublisher.HeaderAggregateType))
	assert.Equal(t, messages[0].EventID.String(), headerValue(first, kafkapublisher.HeaderEventID))
	assert.Equal(t, "1", headerValue(first, kafkapublisher.HeaderVersion))
	assert.Equal(t, "2024-01-10T09:30:00Z", headerValue(first, kafkapublisher.HeaderRecordedAt))
	assert.True(t, recordedAt.Equal(first.Time))
	assert.Equal(t, "r1", headerValue(first, kafkapublisher.HeaderCorrelationID))

	assert.Equal(t, "2", headerValue(writer.messages[1], kafkapublisher.HeaderVersion))
	assert.Empty(t, headerValue(writer.messages[1], kafkapublisher.HeaderRecordedAt), "unknown store timestamps are not sent")
	assert.True(t, writer.messages[1].Time.IsZero())
	assert.Equal(t, first.Key, writer.messages[1].Key)
}

func Test_Publish_ReturnsWriterErrors(t *testing.T) {
	writer := &writerSpy{err: errors.New("leader not available")}
	publisher, err := kafkapublisher.NewPublisherWithWriter(writer, "topic")
	require.NoError(t, err)

	err = publisher.Publish(context.Background(), shell.Message{EventType: "RoomCreated"})

	assert.EqualError(t, err, "leader not available")
	assert.NoError(t, publisher.Publish(context.Background()))
	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}

func Test_NewPublisher_ValidatesConfig(t *testing.T) {
	_, err := kafkapublisher.NewPublisher(kafkapublisher.Config{Topic: "topic"})
	assert.ErrorIs(t, err, kafkapublisher.ErrNoBrokers)

	_, err = kafkapublisher.NewPublisher(kafkapublisher.Config{Brokers: []string{"localhost:9092"}})
	assert.ErrorIs(t, err, kafkapublisher.ErrEmptyTopic)

	_, err = kafkapublisher.NewPublisherWithWriter(nil, "topic")
	assert.ErrorIs(t, err, kafkapublisher.ErrNilWriter)

	publisher, err := kafkapublisher.NewPublisher(kafkapublisher.Config{Brokers: []string{"localhost:9092"}, Topic: "topic"})
	require.NoError(t, err)
	assert.NoError(t, publisher.Close())
}

func Test_Publisher_SatisfiesShellPublisher(t *testing.T) {
	var _ shell.Publisher = (*kafkapublisher.Publisher)(nil)
}
