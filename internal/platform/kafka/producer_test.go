package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseBrokers(t *testing.T) {
	require.Equal(t, []string{"localhost:9092", "kafka:9092"}, ParseBrokers(" localhost:9092, ,kafka:9092 "))
	require.Empty(t, ParseBrokers(""))
}

func TestNewProducerValidatesInput(t *testing.T) {
	_, err := NewProducer(nil, "orders", "storefront", nil)
	require.Error(t, err)

	_, err = NewProducer([]string{"localhost:9092"}, " ", "storefront", nil)
	require.Error(t, err)
}

func TestProduceDoesNotBlockWhenBufferIsFull(t *testing.T) {
	producer, err := NewProducer([]string{"127.0.0.1:1"}, "orders", "storefront", nil,
		WithMaxBufferedRecords(1),
		WithDeliveryTimeout(time.Minute),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_ = producer.Close(ctx)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			producer.Produce(context.Background(), []byte("order-1"), []byte(`{}`))
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("produce blocked on a full buffer")
	}
	require.Eventually(t, func() bool { return producer.Dropped() >= 3 }, 2*time.Second, 10*time.Millisecond)
}
