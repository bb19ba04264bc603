// Package kafka publishes order lifecycle events as JSON records.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Apurer/storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Producer is the slice of the platform Kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, key, value []byte)
}

// Publisher keys records by order id so events for one order stay ordered.
type Publisher struct {
	producer Producer
}

func NewPublisher(producer Producer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka event publisher not configured")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	p.producer.Produce(ctx, []byte(event.Key()), payload)
	return nil
}
