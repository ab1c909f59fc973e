package security

import (
	"context"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"net/http"
	"strings"
)

// Authenticator выдает и проверяет токены сессий администраторов и покупателей.
type Authenticator struct {
	signer  Signer
	storage TokenStorage
}

type TokenStorage interface {
	Save(ctx context.Context, token string, userID int) error
	FindUserID(ctx context.Context, token string) (int, error)
}

type Signer interface {
	Sign(token string) string
	Parse(signed string) (string, error)
}

type userIDContextKey string

const (
	userIDKey    userIDContextKey = "currentUserID"
	bearerPrefix                  = "Bearer "
	tokenLength                   = 32
)

func NewAuthenticator(sgn Signer, store TokenStorage) *Authenticator {
	return &Authenticator{
		signer:  sgn,
		storage: store,
	}
}

// Authenticate проверяет подпись токена из заголовка Authorization (с префиксом
// Bearer или без него), находит пользователя в TokenStorage и сохраняет его
// идентификатор в контекст запроса.
func (a *Authenticator) Authenticate(header string, r *http.Request) (*http.Request, error) {
	signed := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if signed == "" {
		return r, inerr.ErrUnauthorized
	}

	token, err := a.signer.Parse(signed)
	if err != nil {
		return r, err
	}

	userID, err := a.storage.FindUserID(r.Context(), token)
	if err != nil {
		return r, err
	}

	return r.WithContext(WithUserID(r.Context(), userID)), nil
}

// GrantToken создает токен для пользователя, сохраняет его в TokenStorage и
// возвращает значение для заголовка Authorization.
func (a *Authenticator) GrantToken(ctx context.Context, userID int) (string, error) {
	token, err := RandomToken(tokenLength)
	if err != nil {
		return "", err
	}

	if err := a.storage.Save(ctx, token, userID); err != nil {
		return "", err
	}

	return bearerPrefix + a.signer.Sign(token), nil
}

// UserIdentifier возвращает идентификатор аутентифицированного пользователя из контекста запроса.
func (a *Authenticator) UserIdentifier(r *http.Request) (int, error) {
	userID, ok := r.Context().Value(userIDKey).(int)
	if !ok {
		return 0, inerr.ErrUnauthorized
	}

	return userID, nil
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
