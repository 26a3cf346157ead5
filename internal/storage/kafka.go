package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"liquidityLayer/internal/model"
)

// KafkaConfig selects the brokers and topics for KafkaSink.
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	ErrorsTopic string
}

// messageWriter is the part of kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes events as JSON messages keyed by tx hash and log index.
type KafkaSink struct {
	events messageWriter
	errors messageWriter
}

func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	sink := &KafkaSink{events: newWriter(cfg.Brokers, cfg.Topic)}
	if cfg.ErrorsTopic != "" {
		sink.errors = newWriter(cfg.Brokers, cfg.ErrorsTopic)
	}
	return sink, nil
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
}

func (s *KafkaSink) PutEvents(ctx context.Context, events []model.TypedEvent) error {
	if len(events) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.Key()),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(event.EventName)},
				{Key: "contract", Value: []byte(event.Contract)},
			},
		})
	}
	if err := s.events.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func (s *KafkaSink) PutDecodeErrors(ctx context.Context, failures []model.DecodeError) error {
	if len(failures) == 0 || s.errors == nil {
		return nil
	}
	messages := make([]kafka.Message, 0, len(failures))
	for _, failure := range failures {
		value, err := json.Marshal(failure)
		if err != nil {
			return fmt.Errorf("marshal decode error: %w", err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(failure.Log.TxHash),
			Value: value,
		})
	}
	if err := s.errors.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish decode errors: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	var firstErr error
	for _, writer := range []messageWriter{s.events, s.errors} {
		if writer == nil {
			continue
		}
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
