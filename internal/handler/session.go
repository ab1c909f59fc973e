package handler

import (
	"context"
	"errors"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"net/http"
)

type Session struct {
	sessions  SessionOpener
	validator Validator
}

type SessionOpener interface {
	Register(ctx context.Context, login, password string) (token string, err error)
	Login(ctx context.Context, login, password string) (token string, err error)
}

func NewSession(s SessionOpener, v Validator) *Session {
	return &Session{
		sessions:  s,
		validator: v,
	}
}

// Register регистрирует покупателя. Возвращает ответ с кодом 200 и токеном
// в заголовке Authorization, 409 - если логин занят.
func (h *Session) Register(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.sessions.Register, inerr.ErrUserExists, http.StatusConflict)
}

// Login аутентифицирует пользователя по паре логин/пароль. Возвращает ответ с
// кодом 200 и токеном в заголовке Authorization, 401 - если пара не подошла.
func (h *Session) Login(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.sessions.Login, inerr.ErrUserNotFound, http.StatusUnauthorized)
}

func (h *Session) open(
	w http.ResponseWriter,
	r *http.Request,
	grant func(ctx context.Context, login, password string) (string, error),
	knownErr error,
	knownStatus int,
) {
	req := SessionRequest{}
	if err := readJSONBodyAndValidate(r.Context(), &req, r, h.validator); err != nil {
		badRequest(w)

		return
	}

	token, err := grant(r.Context(), req.Login, req.Password)
	if errors.Is(err, knownErr) {
		w.WriteHeader(knownStatus)

		return
	}
	if err != nil {
		serverError(w)

		return
	}

	w.Header().Set("Authorization", token)
	w.WriteHeader(http.StatusOK)
}
