package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Handler func(ctx context.Context, body []byte) error

type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handler) error
}

type RabbitConsumer struct {
	ch *amqp.Channel
}

func NewRabbitConsumer(ch *amqp.Channel) Consumer { return &RabbitConsumer{ch: ch} }

// Consume blocks until the context is cancelled or the delivery channel
// closes. Handler errors marked Temporary are nacked with requeue; any
// other outcome acks the delivery so poison messages do not loop forever.
func (r *RabbitConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handler) error {
	if err := r.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := r.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}

			err := handler(ctx, delivery.Body)
			if IsTemporary(err) {
				_ = delivery.Nack(false, true)
				continue
			}

			_ = delivery.Ack(false)
		}
	}
}

func (r *RabbitConsumer) Close() error {
	if r.ch != nil {
		return r.ch.Close()
	}

	return nil
}
