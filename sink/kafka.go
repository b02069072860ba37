package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/theoremus-urban-solutions/truck-simulator/config"
	"github.com/theoremus-urban-solutions/truck-simulator/utils"
)

// MessageKey is the key of every locations message
const MessageKey = "truck-locations"

const (
	headerSnapshotID    = "snapshot-id"
	headerSimulatedTime = "simulated-time"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each snapshot's trucks map as one JSON message
type Kafka struct {
	writer messageWriter
}

// NewKafka creates a sink writing to cfg.LocationsTopic
func NewKafka(cfg config.KafkaConfig) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.LocationsTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// Publish implements Publisher
func (k *Kafka) Publish(ctx context.Context, s Snapshot) error {
	value, err := json.Marshal(s.Trucks)
	if err != nil {
		return fmt.Errorf("encoding snapshot %d: %w", s.Seq, err)
	}
	msg := kafka.Message{
		Key:   []byte(MessageKey),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerSnapshotID, Value: []byte(uuid.NewString())},
			{Key: headerSimulatedTime, Value: []byte(utils.Iso8601(s.Time))},
		},
		Time: time.Now(),
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing snapshot %d: %w", s.Seq, err)
	}
	return nil
}

// Close flushes and closes the writer
func (k *Kafka) Close() error {
	return k.writer.Close()
}
