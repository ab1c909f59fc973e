package observability

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// NotificationFailures возвращает обработчик ошибок отправки писем, который
// увеличивает счетчик notifications.failed с атрибутом template.
func NotificationFailures(i *Instruments) func(entity.Notification, error) {
	failed, _ := i.Meter(instrumentationName).Int64Counter(
		"notifications.failed",
		metric.WithDescription("Number of notifications the mailer rejected"),
	)

	return func(n entity.Notification, _ error) {
		failed.Add(context.Background(), 1, metric.WithAttributes(attribute.String("template", n.Template)))
	}
}
