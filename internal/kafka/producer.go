package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration // default 50ms
	WriteTimeout time.Duration // default 3s
}

// Producer is a thin wrapper around segmentio/kafka-go Writer. It fans
// accepted inbound events out to downstream consumers; it is a side-effect
// sink, not a delivery queue (write failures are logged by the caller and
// never fail the webhook ack).
type Producer struct {
	w *kafka.Writer
}

func NewProducerFromConfig(c Config) *Producer {
	bt := c.BatchTimeout
	if bt <= 0 {
		bt = 50 * time.Millisecond
	}
	wt := c.WriteTimeout
	if wt <= 0 {
		wt = 3 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: bt,
		WriteTimeout: wt,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{w: w}
}

// Publish writes one event keyed by classification so downstream consumers
// can partition by event kind.
func (p *Producer) Publish(ctx context.Context, classification string, payload []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(classification),
		Value: payload,
	})
}

func (p *Producer) Close() error { return p.w.Close() }
