package observability

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ivanpodgorny/bakesale/internal/observability"

// Sweeper добавляет к проверке просроченных заказов спан и счетчики
// sweep.orders_found, sweep.orders_updated и sweep.orders_cancelled.
type Sweeper struct {
	inner     SweepRunner
	tracer    trace.Tracer
	found     metric.Int64Counter
	updated   metric.Int64Counter
	cancelled metric.Int64Counter
}

type SweepRunner interface {
	Run(ctx context.Context, opts entity.SweepOptions) (entity.SweepResult, error)
}

func NewSweeper(inner SweepRunner, i *Instruments) *Sweeper {
	m := i.Meter(instrumentationName)
	found, _ := m.Int64Counter("sweep.orders_found", metric.WithDescription("Number of overdue orders found"))
	updated, _ := m.Int64Counter("sweep.orders_updated", metric.WithDescription("Number of overdue orders updated"))
	cancelled, _ := m.Int64Counter("sweep.orders_cancelled", metric.WithDescription("Number of overdue orders auto-cancelled"))

	return &Sweeper{
		inner:     inner,
		tracer:    i.Tracer(instrumentationName),
		found:     found,
		updated:   updated,
		cancelled: cancelled,
	}
}

func (s *Sweeper) Run(ctx context.Context, opts entity.SweepOptions) (entity.SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "Sweep.Run", trace.WithAttributes(attribute.Bool("sweep.dry_run", opts.DryRun)))
	defer span.End()

	result, err := s.inner.Run(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return result, err
	}

	span.SetAttributes(
		attribute.Int("sweep.found", result.Found),
		attribute.Int("sweep.updated", result.Updated),
		attribute.Int("sweep.cancelled", result.Cancelled),
	)

	attrs := metric.WithAttributes(attribute.Bool("dry_run", opts.DryRun))
	s.found.Add(ctx, int64(result.Found), attrs)
	s.updated.Add(ctx, int64(result.Updated), attrs)
	s.cancelled.Add(ctx, int64(result.Cancelled), attrs)

	return result, nil
}
