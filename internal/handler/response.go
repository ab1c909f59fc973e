package handler

import (
	"encoding/json"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"net/http"
)

func badRequest(w http.ResponseWriter) {
	http.Error(w, "400 bad request", http.StatusBadRequest)
}

func serverError(w http.ResponseWriter) {
	http.Error(w, "500 internal server error", http.StatusInternalServerError)
}

func responseAsJSON(w http.ResponseWriter, v any, code int) {
	respJSON, err := json.Marshal(v)
	if err != nil {
		serverError(w)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(respJSON); err != nil {
		serverError(w)
	}
}

// responseAction отправляет результат действия с распродажей. Код ответа
// определяется причиной ошибки, тело всегда имеет вид {success, data|error}.
func responseAction(w http.ResponseWriter, result entity.ActionResult) {
	responseAsJSON(w, result, actionStatus(result))
}

func actionStatus(result entity.ActionResult) int {
	if result.Success {
		return http.StatusOK
	}

	switch {
	case errors.Is(result.Err, inerr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(result.Err, inerr.ErrBakeSaleNotFound):
		return http.StatusNotFound
	case errors.Is(result.Err, inerr.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(result.Err, inerr.ErrReasonRequired), errors.Is(result.Err, inerr.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
