package service

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

const (
	defaultSupportEmail = "support@bakesale.local"
	defaultCustomerName = "Customer"
	humanDateLayout     = "Monday, January 2, 2006"
)

// NotificationConfig содержит параметры, общие для писем покупателям.
// Now используется как источник текущего времени, по умолчанию time.Now.
type NotificationConfig struct {
	BaseURL      string
	SupportEmail string
	Now          func() time.Time
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, tag string)
}

func (c NotificationConfig) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}

	return c.Now()
}

func (c NotificationConfig) supportEmail() string {
	if c.SupportEmail == "" {
		return defaultSupportEmail
	}

	return c.SupportEmail
}

func (c NotificationConfig) resolveURL(orderID string) string {
	u, err := url.JoinPath(c.BaseURL, "orders", orderID, "resolve")
	if err != nil {
		return strings.TrimRight(c.BaseURL, "/") + "/orders/" + url.PathEscape(orderID) + "/resolve"
	}

	return u
}

// outboxSendTimeout ограничивает ожидание места в очереди писем. После
// остановки обработчиков очереди письмо отбрасывается по истечении этого времени.
const outboxSendTimeout = 30 * time.Second

// outbox ставит письма в очередь на отправку, не дожидаясь, пока очередь их примет.
type outbox struct {
	queue   chan<- entity.Notification
	timeout time.Duration
	logger  *slog.Logger
}

func newOutbox(q chan<- entity.Notification, l *slog.Logger) outbox {
	return outbox{
		queue:   q,
		timeout: outboxSendTimeout,
		logger:  l,
	}
}

func (o outbox) submit(n entity.Notification) {
	go func() {
		t := time.NewTimer(o.timeout)
		defer t.Stop()

		select {
		case o.queue <- n:
		case <-t.C:
			o.logger.Warn(
				"письмо не поставлено в очередь",
				slog.String("template", string(n.Template)),
				slog.Duration("timeout", o.timeout),
			)
		}
	}()
}

func invalidateOrderViews(ctx context.Context, c CacheInvalidator) {
	for _, tag := range entity.OrderCacheTags {
		c.Invalidate(ctx, tag)
	}
}

func customerName(o entity.Order) string {
	if name := strings.TrimSpace(o.CustomerName); name != "" {
		return name
	}

	return defaultCustomerName
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(humanDateLayout)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
