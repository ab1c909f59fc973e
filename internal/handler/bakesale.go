package handler

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"log/slog"
	"net/http"
)

type BakeSale struct {
	disruptor     Disruptor
	orders        OrderFinder
	admins        AdminChecker
	authenticator IdentityProvider
	validator     Validator
	logger        *slog.Logger
}

type Disruptor interface {
	Cancel(ctx context.Context, userID int, bakeSaleID, reason string) entity.ActionResult
	Reschedule(ctx context.Context, userID int, bakeSaleID, newDate, reason string) entity.ActionResult
}

type OrderFinder interface {
	FindByBakeSale(ctx context.Context, bakeSaleID string) ([]entity.Order, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int) (bool, error)
}

func NewBakeSale(
	d Disruptor,
	o OrderFinder,
	ac AdminChecker,
	a IdentityProvider,
	v Validator,
	l *slog.Logger,
) *BakeSale {
	return &BakeSale{
		disruptor:     d,
		orders:        o,
		admins:        ac,
		authenticator: a,
		validator:     v,
		logger:        l,
	}
}

// Cancel отменяет распродажу {id} и все ее незавершенные заказы.
func (h *BakeSale) Cancel(w http.ResponseWriter, r *http.Request) {
	req := CancelRequest{}
	if err := readJSONBody(&req, r); err != nil {
		responseAction(w, entity.ActionFailed(inerr.ErrInvalidRequest))

		return
	}

	userID, err := h.authenticator.UserIdentifier(r)
	if err != nil {
		responseAction(w, entity.ActionFailed(inerr.ErrUnauthorized))

		return
	}

	responseAction(w, h.disruptor.Cancel(r.Context(), userID, chi.URLParam(r, "id"), req.Reason))
}

// Reschedule переносит распродажу {id} на дату из тела запроса. Роль
// проверяется раньше даты: не администратор получает 403 при любой дате.
func (h *BakeSale) Reschedule(w http.ResponseWriter, r *http.Request) {
	req := RescheduleRequest{}
	if err := readJSONBody(&req, r); err != nil {
		responseAction(w, entity.ActionFailed(inerr.ErrInvalidRequest))

		return
	}

	userID, ok := h.adminID(r)
	if !ok {
		responseAction(w, entity.ActionFailed(inerr.ErrUnauthorized))

		return
	}

	if err := h.validator.Struct(r.Context(), &req); err != nil {
		responseAction(w, entity.ActionFailed(inerr.ErrInvalidDate))

		return
	}

	responseAction(w, h.disruptor.Reschedule(r.Context(), userID, chi.URLParam(r, "id"), req.Date, req.Reason))
}

// Orders возвращает заказы распродажи {id}. Доступно только администраторам.
func (h *BakeSale) Orders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminID(r); !ok {
		responseAction(w, entity.ActionFailed(inerr.ErrUnauthorized))

		return
	}

	orders, err := h.orders.FindByBakeSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ошибка получения заказов распродажи", slog.String("error", err.Error()))
		serverError(w)

		return
	}

	if orders == nil {
		orders = []entity.Order{}
	}

	responseAsJSON(w, orders, http.StatusOK)
}

// adminID возвращает идентификатор текущего пользователя, если он администратор.
// Ошибка проверки роли считается отказом.
func (h *BakeSale) adminID(r *http.Request) (int, bool) {
	userID, err := h.authenticator.UserIdentifier(r)
	if err != nil {
		return 0, false
	}

	isAdmin, err := h.admins.IsAdmin(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ошибка проверки роли пользователя", slog.Int("user.id", userID), slog.String("error", err.Error()))

		return 0, false
	}

	return userID, isAdmin
}
