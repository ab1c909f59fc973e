package observability

import (
	"context"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"testing"
)

type SweepRunnerMock struct {
	mock.Mock
}

func (m *SweepRunnerMock) Run(_ context.Context, opts entity.SweepOptions) (entity.SweepResult, error) {
	args := m.Called(opts)

	return args.Get(0).(entity.SweepResult), args.Error(1)
}

type BakeSaleDisruptorMock struct {
	mock.Mock
}

func (m *BakeSaleDisruptorMock) Cancel(_ context.Context, userID int, bakeSaleID, reason string) entity.ActionResult {
	args := m.Called(userID, bakeSaleID, reason)

	return args.Get(0).(entity.ActionResult)
}

func (m *BakeSaleDisruptorMock) Reschedule(_ context.Context, userID int, bakeSaleID, newDate, reason string) entity.ActionResult {
	args := m.Called(userID, bakeSaleID, newDate, reason)

	return args.Get(0).(entity.ActionResult)
}

func newTestInstruments() (*Instruments, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	var (
		spans  = tracetest.NewSpanRecorder()
		reader = sdkmetric.NewManualReader()
	)

	return &Instruments{
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
		MeterProvider:  sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}, spans, reader
}

// counterValue возвращает сумму всех точек счетчика name.
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "счетчик %s имеет тип int64", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}

func TestSweeper_Run(t *testing.T) {
	var (
		ctx                     = context.Background()
		instruments, spans, rdr = newTestInstruments()
		inner                   = &SweepRunnerMock{}
		opts                    = entity.SweepOptions{}
		result                  = entity.SweepResult{Found: 3, Updated: 2, Cancelled: 1}
	)
	inner.On("Run", opts).Return(result, nil).Once()

	got, err := NewSweeper(inner, instruments).Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, result, got, "результат не изменяется")
	assert.Equal(t, int64(3), counterValue(t, rdr, "sweep.orders_found"))
	assert.Equal(t, int64(2), counterValue(t, rdr, "sweep.orders_updated"))
	assert.Equal(t, int64(1), counterValue(t, rdr, "sweep.orders_cancelled"))

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "Sweep.Run", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	inner.AssertExpectations(t)
}

func TestSweeper_RunError(t *testing.T) {
	var (
		instruments, spans, rdr = newTestInstruments()
		inner                   = &SweepRunnerMock{}
		opts                    = entity.SweepOptions{DryRun: true}
	)
	inner.On("Run", opts).Return(entity.SweepResult{DryRun: true}, errors.New("connection refused")).Once()

	_, err := NewSweeper(inner, instruments).Run(context.Background(), opts)
	assert.Error(t, err)
	assert.Equal(t, int64(0), counterValue(t, rdr, "sweep.orders_found"), "при ошибке счетчики не меняются")

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestDisruptor(t *testing.T) {
	var (
		ctx                     = context.Background()
		instruments, spans, rdr = newTestInstruments()
		inner                   = &BakeSaleDisruptorMock{}
	)
	inner.On("Cancel", 1, "bs_1", "Oven broke down").Return(entity.ActionSucceeded(3)).Once()
	inner.On("Reschedule", 1, "bs_2", "2026-11-02", "Venue moved").Return(entity.ActionSucceeded(2)).Once()
	inner.On("Cancel", 2, "bs_1", "reason").Return(entity.ActionFailed(inerr.ErrUnauthorized)).Once()
	d := NewDisruptor(inner, instruments)

	assert.Equal(t, entity.ActionSucceeded(3), d.Cancel(ctx, 1, "bs_1", "Oven broke down"))
	assert.Equal(t, entity.ActionSucceeded(2), d.Reschedule(ctx, 1, "bs_2", "2026-11-02", "Venue moved"))
	assert.Equal(t, entity.ActionFailed(inerr.ErrUnauthorized), d.Cancel(ctx, 2, "bs_1", "reason"))
	assert.Equal(t, int64(5), counterValue(t, rdr, "disruption.orders_affected"))

	ended := spans.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "Disruption.Cancel", ended[0].Name())
	assert.Equal(t, "Disruption.Reschedule", ended[1].Name())
	assert.Equal(t, codes.Error, ended[2].Status().Code, "отказ отмечается в спане")
	inner.AssertExpectations(t)
}

func TestNotificationFailures(t *testing.T) {
	instruments, _, rdr := newTestInstruments()
	onError := NotificationFailures(instruments)

	onError(entity.Notification{Template: entity.TemplateActionRequired}, errors.New("429"))
	onError(entity.Notification{Template: entity.TemplateBakeSaleCancelled}, errors.New("500"))
	assert.Equal(t, int64(2), counterValue(t, rdr, "notifications.failed"))
}

func TestInstruments_Noop(t *testing.T) {
	var i *Instruments

	assert.NotPanics(t, func() {
		_, span := i.Tracer("test").Start(context.Background(), "span")
		span.End()
		counter, err := i.Meter("test").Int64Counter("counter")
		require.NoError(t, err)
		counter.Add(context.Background(), 1)
	}, "без провайдеров используются noop реализации")
}
