package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// KafkaConfig configures the Kafka usage sink.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// KafkaSink publishes usage records as JSON, keyed by tool name.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSink connects a sync producer to the configured brokers.
func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers is empty")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("kafka topic is empty")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V2_8_0_0
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Retry.Backoff = 100 * time.Millisecond
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.ClientID = strings.TrimSpace(cfg.ClientID)
	if sc.ClientID == "" {
		sc.ClientID = "toolbridge"
	}

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(p, cfg.Topic), nil
}

// NewKafkaSinkWithProducer wraps an existing producer.
func NewKafkaSinkWithProducer(p sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Send(ctx context.Context, u Usage) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	value, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal usage record: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(u.Tool),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to publish usage record: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	if s == nil || s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
