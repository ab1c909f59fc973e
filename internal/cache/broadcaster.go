package cache

import (
	"context"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"log/slog"
	"time"
)

// InvalidationExchange - fanout exchange, в который публикуются сброшенные теги.
const InvalidationExchange = "cache.invalidate"

// Broadcaster рассылает сброс тегов всем подписчикам через RabbitMQ и
// дополнительно сбрасывает локальный Registry.
type Broadcaster struct {
	publisher Publisher
	local     *Registry
	logger    *slog.Logger
}

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func NewBroadcaster(p Publisher, local *Registry, l *slog.Logger) *Broadcaster {
	return &Broadcaster{
		publisher: p,
		local:     local,
		logger:    l,
	}
}

// Dial подключается к RabbitMQ и объявляет exchange для сброса кэша. Возвращает
// канал для публикации и функцию закрытия соединения.
func Dial(url string) (*amqp.Channel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		InvalidationExchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = channel.Close()
		_ = conn.Close()

		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return channel, func() {
		_ = channel.Close()
		_ = conn.Close()
	}, nil
}

// Invalidate публикует тег в InvalidationExchange. Ошибка публикации только
// логируется: устаревший кэш не должен ломать изменение заказов.
func (b *Broadcaster) Invalidate(ctx context.Context, tag string) {
	if b.local != nil {
		b.local.Invalidate(ctx, tag)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := b.publisher.PublishWithContext(ctx, InvalidationExchange, "", false, false, amqp.Publishing{
		ContentType: "text/plain",
		Timestamp:   time.Now(),
		Body:        []byte(tag),
	})
	if err != nil {
		b.logger.ErrorContext(ctx, "ошибка публикации сброса кэша", slog.String("tag", tag), slog.String("error", err.Error()))
	}
}
