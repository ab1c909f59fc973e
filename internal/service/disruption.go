package service

import (
	"context"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"log/slog"
	"strings"
	"time"
)

const disruptionFailedMessage = "Failed to update bake sale"

// Disruption распространяет отмену или перенос распродажи на все привязанные
// к ней заказы и уведомляет покупателей.
type Disruption struct {
	repository DisruptionRepository
	admins     AdminChecker
	outbox     outbox
	cache      CacheInvalidator
	logger     *slog.Logger
	config     NotificationConfig
}

type DisruptionRepository interface {
	FindByID(ctx context.Context, id string) (entity.BakeSale, error)
	Cancel(ctx context.Context, id string) ([]entity.Order, error)
	Reschedule(ctx context.Context, id string, date time.Time) ([]entity.Order, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int) (bool, error)
}

func NewDisruption(
	r DisruptionRepository,
	a AdminChecker,
	q chan<- entity.Notification,
	c CacheInvalidator,
	l *slog.Logger,
	cfg NotificationConfig,
) *Disruption {
	return &Disruption{
		repository: r,
		admins:     a,
		outbox:     newOutbox(q, l),
		cache:      c,
		logger:     l,
		config:     cfg,
	}
}

// Cancel отменяет распродажу и все ее незавершенные заказы. Каждому покупателю
// с известным email ставится в очередь письмо с причиной отмены и исходной датой.
func (s *Disruption) Cancel(ctx context.Context, userID int, bakeSaleID, reason string) entity.ActionResult {
	if err := s.authorize(ctx, userID); err != nil {
		return entity.ActionFailed(err)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entity.ActionFailed(inerr.ErrReasonRequired)
	}

	bakeSale, err := s.repository.FindByID(ctx, bakeSaleID)
	if err != nil {
		return s.fail(ctx, "ошибка получения распродажи", bakeSaleID, err)
	}

	orders, err := s.repository.Cancel(ctx, bakeSaleID)
	if err != nil {
		return s.fail(ctx, "ошибка отмены распродажи", bakeSaleID, err)
	}

	for _, order := range orders {
		if order.CustomerEmail == "" {
			continue
		}

		s.outbox.submit(entity.Notification{
			To:       order.CustomerEmail,
			Template: entity.TemplateBakeSaleCancelled,
			Variables: map[string]string{
				"customerName":   customerName(order),
				"orderReference": order.Reference(),
				"bakeSaleDate":   humanDate(bakeSale.Date),
				"reason":         reason,
				"supportEmail":   s.config.supportEmail(),
			},
		})
	}

	invalidateOrderViews(ctx, s.cache)
	s.logger.InfoContext(
		ctx,
		"распродажа отменена",
		slog.String("bake_sale.id", bakeSaleID),
		slog.Int("user.id", userID),
		slog.Int("affected_orders", len(orders)),
	)

	return entity.ActionSucceeded(len(orders))
}

// Reschedule переносит распродажу на newDate (YYYY-MM-DD). Статусы заказов не
// меняются, заказы проверяются по новой дате при следующих проверках. Покупателям
// незавершенных заказов ставится в очередь письмо со старой и новой датой.
func (s *Disruption) Reschedule(ctx context.Context, userID int, bakeSaleID, newDate, reason string) entity.ActionResult {
	if err := s.authorize(ctx, userID); err != nil {
		return entity.ActionFailed(err)
	}

	date, err := time.Parse(entity.DateLayout, strings.TrimSpace(newDate))
	if err != nil {
		return entity.ActionFailed(inerr.ErrInvalidDate)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entity.ActionFailed(inerr.ErrReasonRequired)
	}

	bakeSale, err := s.repository.FindByID(ctx, bakeSaleID)
	if err != nil {
		return s.fail(ctx, "ошибка получения распродажи", bakeSaleID, err)
	}

	orders, err := s.repository.Reschedule(ctx, bakeSaleID, date)
	if err != nil {
		return s.fail(ctx, "ошибка переноса распродажи", bakeSaleID, err)
	}

	for _, order := range orders {
		if order.CustomerEmail == "" {
			continue
		}

		s.outbox.submit(entity.Notification{
			To:       order.CustomerEmail,
			Template: entity.TemplateBakeSaleRescheduled,
			Variables: map[string]string{
				"customerName":   customerName(order),
				"orderReference": order.Reference(),
				"oldDate":        humanDate(bakeSale.Date),
				"newDate":        humanDate(date),
				"reason":         reason,
			},
		})
	}

	invalidateOrderViews(ctx, s.cache)
	s.logger.InfoContext(
		ctx,
		"распродажа перенесена",
		slog.String("bake_sale.id", bakeSaleID),
		slog.Int("user.id", userID),
		slog.String("old_date", bakeSale.Date.Format(entity.DateLayout)),
		slog.String("new_date", date.Format(entity.DateLayout)),
		slog.Int("affected_orders", len(orders)),
	)

	return entity.ActionSucceeded(len(orders))
}

// authorize пропускает только администраторов. Любая ошибка проверки роли
// считается отказом в доступе.
func (s *Disruption) authorize(ctx context.Context, userID int) error {
	ok, err := s.admins.IsAdmin(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "ошибка проверки роли пользователя", slog.Int("user.id", userID), slog.String("error", err.Error()))

		return inerr.ErrUnauthorized
	}

	if !ok {
		return inerr.ErrUnauthorized
	}

	return nil
}

func (s *Disruption) fail(ctx context.Context, msg, bakeSaleID string, err error) entity.ActionResult {
	if errors.Is(err, inerr.ErrBakeSaleNotFound) {
		return entity.ActionFailed(err)
	}

	s.logger.ErrorContext(ctx, msg, slog.String("bake_sale.id", bakeSaleID), slog.String("error", err.Error()))

	return entity.ActionResult{
		Success: false,
		Error:   disruptionFailedMessage,
		Err:     err,
	}
}
