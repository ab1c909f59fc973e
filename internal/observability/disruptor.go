package observability

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Disruptor добавляет к отмене и переносу распродаж спаны и счетчик
// disruption.orders_affected с атрибутом action.
type Disruptor struct {
	inner    BakeSaleDisruptor
	tracer   trace.Tracer
	affected metric.Int64Counter
}

type BakeSaleDisruptor interface {
	Cancel(ctx context.Context, userID int, bakeSaleID, reason string) entity.ActionResult
	Reschedule(ctx context.Context, userID int, bakeSaleID, newDate, reason string) entity.ActionResult
}

func NewDisruptor(inner BakeSaleDisruptor, i *Instruments) *Disruptor {
	affected, _ := i.Meter(instrumentationName).Int64Counter(
		"disruption.orders_affected",
		metric.WithDescription("Number of orders affected by bake sale cancellation or rescheduling"),
	)

	return &Disruptor{
		inner:    inner,
		tracer:   i.Tracer(instrumentationName),
		affected: affected,
	}
}

func (d *Disruptor) Cancel(ctx context.Context, userID int, bakeSaleID, reason string) entity.ActionResult {
	ctx, span := d.start(ctx, "Disruption.Cancel", bakeSaleID)
	defer span.End()

	return d.record(ctx, span, "cancel", d.inner.Cancel(ctx, userID, bakeSaleID, reason))
}

func (d *Disruptor) Reschedule(ctx context.Context, userID int, bakeSaleID, newDate, reason string) entity.ActionResult {
	ctx, span := d.start(ctx, "Disruption.Reschedule", bakeSaleID)
	defer span.End()
	span.SetAttributes(attribute.String("bake_sale.new_date", newDate))

	return d.record(ctx, span, "reschedule", d.inner.Reschedule(ctx, userID, bakeSaleID, newDate, reason))
}

func (d *Disruptor) start(ctx context.Context, name, bakeSaleID string) (context.Context, trace.Span) {
	return d.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("bake_sale.id", bakeSaleID)))
}

func (d *Disruptor) record(ctx context.Context, span trace.Span, action string, result entity.ActionResult) entity.ActionResult {
	if !result.Success {
		if result.Err != nil {
			span.RecordError(result.Err)
		}
		span.SetStatus(codes.Error, result.Error)

		return result
	}

	affected := 0
	if result.Data != nil {
		affected = result.Data.AffectedOrders
	}
	span.SetAttributes(attribute.Int("bake_sale.affected_orders", affected))
	d.affected.Add(ctx, int64(affected), metric.WithAttributes(attribute.String("action", action)))

	return result
}
