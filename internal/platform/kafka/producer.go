package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultMaxBufferedRecords = 1024
	defaultDeliveryTimeout    = 30 * time.Second
)

// Producer publishes records to a single default topic.
type Producer struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	dropped atomic.Int64
}

type producerSettings struct {
	maxBuffered     int
	deliveryTimeout time.Duration
}

type ProducerOption func(*producerSettings)

// WithMaxBufferedRecords caps how many records wait for delivery. Records
// produced past the cap are dropped.
func WithMaxBufferedRecords(n int) ProducerOption {
	return func(s *producerSettings) {
		if n > 0 {
			s.maxBuffered = n
		}
	}
}

// WithDeliveryTimeout bounds how long a record is retried before it fails.
func WithDeliveryTimeout(d time.Duration) ProducerOption {
	return func(s *producerSettings) {
		if d > 0 {
			s.deliveryTimeout = d
		}
	}
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			brokers = append(brokers, part)
		}
	}
	return brokers
}

// NewProducer builds a franz-go client for the given brokers. The client
// connects lazily so an unreachable broker only surfaces on produce.
func NewProducer(brokers []string, topic, clientID string, logger *slog.Logger, opts ...ProducerOption) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are empty")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka topic is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	settings := producerSettings{maxBuffered: defaultMaxBufferedRecords, deliveryTimeout: defaultDeliveryTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID(clientID),
		kgo.MaxBufferedRecords(settings.maxBuffered),
		kgo.RecordDeliveryTimeout(settings.deliveryTimeout),
	)
	if err != nil {
		return nil, err
	}
	return &Producer{client: client, topic: topic, logger: logger}, nil
}

// Produce hands the record to the client's buffer and never blocks. A full
// buffer drops the record. Delivery failures are logged from the callback.
func (p *Producer) Produce(ctx context.Context, key, value []byte) {
	record := &kgo.Record{Key: key, Value: value}
	p.client.TryProduce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			if errors.Is(err, kgo.ErrMaxBuffered) {
				p.dropped.Add(1)
			}
			p.logger.Error("failed to produce kafka record",
				slog.String("topic", p.topic),
				slog.String("key", string(r.Key)),
				slog.String("error", err.Error()))
			return
		}
		p.logger.Debug("kafka record produced",
			slog.String("topic", r.Topic),
			slog.Int("partition", int(r.Partition)),
			slog.Int64("offset", r.Offset))
	})
}

// Dropped reports how many records were rejected by a full buffer.
func (p *Producer) Dropped() int64 {
	return p.dropped.Load()
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close(ctx context.Context) error {
	if p == nil || p.client == nil {
		return nil
	}
	err := p.client.Flush(ctx)
	p.client.Close()
	return err
}
