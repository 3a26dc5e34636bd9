// Package kafka bridges the broadcast channel to a Kafka cluster: a
// producer publishing every delivery event to one topic, and a consumer
// group turning partner orders into delivery creation commands.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"

	"github.com/IBM/sarama"
)

// eventEnvelope is the wire form of a broadcast event. Fields are only ever
// added, never renamed or removed.
type eventEnvelope struct {
	Event string         `json:"event"`
	Topic string         `json:"topic"`
	At    time.Time      `json:"at"`
	Data  map[string]any `json:"data"`
}

// Publisher bridges broadcast events to a Kafka topic. Messages are keyed
// by the broadcast topic, so all events of one delivery land on one
// partition in order.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewPublisher connects a synchronous producer to the given brokers.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, errs.NewExternalDependencyErrorWithCause("kafka", true, err)
	}

	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka_publisher"),
	}, nil
}

// Publish sends one event to the bridge topic.
func (p *Publisher) Publish(ctx context.Context, event ports.Event) error {
	value, err := json.Marshal(eventEnvelope{
		Event: event.Name,
		Topic: event.Topic,
		At:    event.At.UTC(),
		Data:  event.Data,
	})
	if err != nil {
		return err
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Topic),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return errs.NewExternalDependencyErrorWithCause("kafka", true, err)
	}

	p.logger.DebugContext(ctx, "Bridged event",
		"event", event.Name, "partition", partition, "offset", offset)
	return nil
}

// Close shuts the producer down.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
