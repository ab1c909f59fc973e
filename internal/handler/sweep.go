package handler

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"log/slog"
	"net/http"
)

type Sweep struct {
	sweeper   Sweeper
	validator Validator
	logger    *slog.Logger
}

type Sweeper interface {
	Run(ctx context.Context, opts entity.SweepOptions) (entity.SweepResult, error)
}

func NewSweep(s Sweeper, v Validator, l *slog.Logger) *Sweep {
	return &Sweep{
		sweeper:   s,
		validator: v,
		logger:    l,
	}
}

// Run запускает проверку просроченных заказов. Принимает GET и POST запросы с
// необязательным телом {dryRun, autoCloseAfterDays}. Возвращает ответ с кодом 200
// и результатом проверки, 400 - если тело не разобрано, 422 - если параметры
// некорректны.
func (h *Sweep) Run(w http.ResponseWriter, r *http.Request) {
	opts := entity.SweepOptions{}
	if err := readOptionalJSONBody(&opts, r); err != nil {
		badRequest(w)

		return
	}

	if err := h.validator.Struct(r.Context(), &opts); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)

		return
	}

	result, err := h.sweeper.Run(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "ошибка проверки просроченных заказов", slog.String("error", err.Error()))
		serverError(w)

		return
	}

	responseAsJSON(w, result, http.StatusOK)
}
