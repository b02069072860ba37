package clock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/theoremus-urban-solutions/truck-simulator/config"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaPublisher writes clock messages to the clock topic
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for cfg.ClockTopic
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.ClockTopic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// PublishTime implements TimePublisher
func (p *KafkaPublisher) PublishTime(ctx context.Context, t time.Time) error {
	value, err := EncodeMoment(t)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Value: value, Time: time.Now()})
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaSubscriber follows a clock published on the clock topic
type KafkaSubscriber struct {
	reader  messageReader
	groupID string
	backoff time.Duration
	logger  *logrus.Logger
}

// NewKafkaSubscriber creates a reader on cfg.ClockTopic. Without a configured
// group id every instance joins its own group so it sees every tick.
func NewKafkaSubscriber(cfg config.KafkaConfig, logger *logrus.Logger) *KafkaSubscriber {
	groupID := cfg.GroupID
	if groupID == "" {
		groupID = "truck-simulator-" + uuid.NewString()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.ClockTopic,
		GroupID:        groupID,
		StartOffset:    kafka.LastOffset,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        500 * time.Millisecond,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
		ErrorLogger:    kafka.LoggerFunc(logger.Errorf),
	})
	return &KafkaSubscriber{reader: reader, groupID: groupID, backoff: time.Second, logger: logger}
}

// GroupID returns the consumer group in use
func (s *KafkaSubscriber) GroupID() string {
	return s.groupID
}

// Subscribe reads clock messages until ctx is done. Transport and decode
// failures are delivered as error events. The channel is closed on exit.
func (s *KafkaSubscriber) Subscribe(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		defer func() { _ = s.reader.Close() }()
		s.logger.WithField("group_id", s.groupID).Info("Subscribed to clock topic")

		for {
			msg, err := s.reader.ReadMessage(ctx)
			if ctx.Err() != nil {
				return
			}
			var ev Event
			transportErr := err != nil
			if transportErr {
				ev.Err = err
			} else if ev.Time, err = DecodeMoment(msg.Value); err != nil {
				ev.Err = err
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
			if transportErr && s.backoff > 0 {
				select {
				case <-time.After(s.backoff):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
