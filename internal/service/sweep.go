package service

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"log/slog"
	"time"
)

// Sweep находит заказы, дата распродажи которых уже прошла, и переводит их
// в статус entity.OrderStatusActionRequired или отменяет неоплаченные заказы,
// просроченные дольше SweepOptions.AutoCloseAfterDays дней.
type Sweep struct {
	repository SweepRepository
	outbox     outbox
	cache      CacheInvalidator
	logger     *slog.Logger
	config     NotificationConfig
}

type SweepRepository interface {
	FindOverdue(ctx context.Context, statuses []entity.OrderStatus, before string) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (entity.Order, error)
}

func NewSweep(
	r SweepRepository,
	q chan<- entity.Notification,
	c CacheInvalidator,
	l *slog.Logger,
	cfg NotificationConfig,
) *Sweep {
	return &Sweep{
		repository: r,
		outbox:     newOutbox(q, l),
		cache:      c,
		logger:     l,
		config:     cfg,
	}
}

// Run выполняет один проход по просроченным заказам. Заказы обрабатываются
// последовательно; ошибка записи статуса одного заказа не прерывает проход, такой
// заказ просто не учитывается в счетчиках Updated и Cancelled. В режиме DryRun
// решения вычисляются, но статусы, письма и кэш не изменяются.
func (s *Sweep) Run(ctx context.Context, opts entity.SweepOptions) (entity.SweepResult, error) {
	var (
		runID    = uuid.NewString()
		today    = startOfDay(s.config.now())
		todayStr = today.Format(entity.DateLayout)
		result   = entity.SweepResult{
			DryRun:             opts.DryRun,
			AutoCloseAfterDays: opts.AutoCloseAfterDays,
			Results:            []entity.SweepDecision{},
		}
	)

	orders, err := s.repository.FindOverdue(ctx, entity.InFlightStatuses, todayStr)
	if err != nil {
		return result, fmt.Errorf("find overdue orders: %w", err)
	}

	result.Found = len(orders)
	for _, order := range orders {
		decision := s.decide(order, today, opts.AutoCloseAfterDays)
		result.Results = append(result.Results, decision)

		if opts.DryRun {
			continue
		}

		if s.apply(ctx, order, decision) {
			result.Updated++
			if decision.NextStatus == entity.OrderStatusCancelled {
				result.Cancelled++
			}
		}
	}

	if !opts.DryRun {
		invalidateOrderViews(ctx, s.cache)
	}

	s.logger.InfoContext(
		ctx,
		"проверка просроченных заказов завершена",
		slog.String("run_id", runID),
		slog.Bool("dry_run", result.DryRun),
		slog.Int("found", result.Found),
		slog.Int("updated", result.Updated),
		slog.Int("cancelled", result.Cancelled),
		autoCloseAttr(opts.AutoCloseAfterDays),
	)

	return result, nil
}

func (s *Sweep) decide(order entity.Order, today time.Time, autoCloseAfterDays *int) entity.SweepDecision {
	decision := entity.SweepDecision{
		ID:         order.ID,
		Status:     order.Status,
		NextStatus: entity.OrderStatusActionRequired,
	}

	if order.HasDate() {
		decision.BakeSaleDate = order.BakeSaleDate.Format(entity.DateLayout)
		decision.OverdueDays = overdueDays(order.BakeSaleDate, today)
	}

	shouldAutoClose := autoCloseAfterDays != nil && decision.OverdueDays >= *autoCloseAfterDays
	if shouldAutoClose && order.PaymentStatus != entity.PaymentStatusCompleted {
		decision.NextStatus = entity.OrderStatusCancelled
	}

	return decision
}

// apply сохраняет новый статус заказа и ставит в очередь письмо покупателю.
// Возвращает true, только если хранилище подтвердило запись.
func (s *Sweep) apply(ctx context.Context, order entity.Order, decision entity.SweepDecision) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			s.logger.ErrorContext(
				ctx,
				"непредвиденная ошибка при обработке заказа",
				slog.String("order.id", order.ID),
				slog.Any("panic", r),
			)
		}
	}()

	if _, err := s.repository.UpdateStatus(ctx, order.ID, decision.NextStatus); err != nil {
		s.logger.ErrorContext(
			ctx,
			"ошибка обновления статуса заказа",
			slog.String("order.id", order.ID),
			slog.String("status", string(decision.NextStatus)),
			slog.String("error", err.Error()),
		)

		return false
	}

	s.notify(order, decision)

	return true
}

func (s *Sweep) notify(order entity.Order, decision entity.SweepDecision) {
	if order.CustomerEmail == "" {
		return
	}

	switch decision.NextStatus {
	case entity.OrderStatusActionRequired:
		s.outbox.submit(entity.Notification{
			To:       order.CustomerEmail,
			Template: entity.TemplateActionRequired,
			Variables: map[string]string{
				"customerName":   customerName(order),
				"orderDate":      humanDate(order.BakeSaleDate),
				"resolveUrl":     s.config.resolveURL(order.ID),
				"orderReference": order.Reference(),
			},
		})
	case entity.OrderStatusCancelled:
		s.outbox.submit(entity.Notification{
			To:       order.CustomerEmail,
			Template: entity.TemplateOrderAutoCancelled,
			Variables: map[string]string{
				"customerName":   customerName(order),
				"orderReference": order.Reference(),
				"orderDate":      humanDate(order.BakeSaleDate),
				"supportEmail":   s.config.supportEmail(),
			},
		})
	}
}

// overdueDays возвращает число полных дней между датой распродажи и today, не меньше 0.
func overdueDays(date, today time.Time) int {
	days := int(today.Sub(startOfDay(date)).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days
}

func autoCloseAttr(days *int) slog.Attr {
	if days == nil {
		return slog.String("auto_close_after_days", "disabled")
	}

	return slog.Int("auto_close_after_days", *days)
}
