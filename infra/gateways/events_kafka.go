package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/giovaniif/item-store/infra/tracing"
	"github.com/giovaniif/item-store/protocols"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ItemEventPublisherKafka struct {
	writer messageWriter
}

func NewItemEventPublisherKafka(brokers []string, topic string) *ItemEventPublisherKafka {
	return &ItemEventPublisherKafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

// Publish writes the event keyed by item id so every event of one item lands
// on the same partition.
func (p *ItemEventPublisherKafka) Publish(ctx context.Context, event protocols.ItemEvent) error {
	message, err := toKafkaMessage(event)
	if err != nil {
		return err
	}
	tracing.Inject(ctx, headerCarrier{headers: &message.Headers})
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *ItemEventPublisherKafka) Close() error {
	return p.writer.Close()
}

func toKafkaMessage(event protocols.ItemEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(event.Item.Id),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}

// headerCarrier adapts Kafka message headers to the otel TextMapCarrier.
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key string, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
