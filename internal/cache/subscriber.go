package cache

import (
	"context"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"log/slog"
)

type Consumer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Subscribe привязывает временную очередь экземпляра к InvalidationExchange и
// сбрасывает полученные теги в локальном Registry. Блокируется до отмены ctx
// или закрытия канала доставки.
func Subscribe(ctx context.Context, c Consumer, r *Registry, l *slog.Logger) error {
	q, err := c.QueueDeclare(
		"",
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := c.QueueBind(q.Name, "", InvalidationExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := c.Consume(
		q.Name,
		"",    // consumer tag
		true,  // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			tag := string(d.Body)
			if tag == "" {
				continue
			}

			r.Invalidate(ctx, tag)
			l.DebugContext(ctx, "получен сброс кэша", slog.String("tag", tag))
		case <-ctx.Done():
			return nil
		}
	}
}
