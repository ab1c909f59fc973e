package service

import (
	"context"
	"errors"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
)

const (
	roleAdmin    = "admin"
	roleCustomer = "customer"
)

// Session регистрирует пользователей и выдает им токены. Действия с распродажами
// доступны только пользователям с ролью admin.
type Session struct {
	repository    UserRepository
	hasher        Hasher
	tokenProvider TokenProvider
}

type UserRepository interface {
	Create(ctx context.Context, login, passwordHash, role string) (id int, err error)
	FindByLogin(ctx context.Context, login string) (id int, passwordHash string, err error)
}

type Hasher interface {
	Hash(string) (string, error)
	Compare(password, hash string) bool
}

type TokenProvider interface {
	GrantToken(ctx context.Context, userID int) (string, error)
}

func NewSession(r UserRepository, h Hasher, p TokenProvider) *Session {
	return &Session{
		repository:    r,
		hasher:        h,
		tokenProvider: p,
	}
}

// Register создает покупателя и выдает ему токен. Если логин занят, возвращает
// inerr.ErrUserExists.
func (s *Session) Register(ctx context.Context, login, password string) (string, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	id, err := s.repository.Create(ctx, login, passwordHash, roleCustomer)
	if err != nil {
		return "", err
	}

	return s.tokenProvider.GrantToken(ctx, id)
}

// EnsureAdmin создает администратора с переданными логином и паролем, если
// пользователя с таким логином еще нет. Существующий пользователь не изменяется.
func (s *Session) EnsureAdmin(ctx context.Context, login, password string) error {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	_, err = s.repository.Create(ctx, login, passwordHash, roleAdmin)
	if errors.Is(err, inerr.ErrUserExists) {
		return nil
	}

	return err
}

// Login выдает новый токен, если пароль совпадает с сохраненным хэшем. Неизвестный
// логин и неверный пароль неразличимы для вызывающего: оба дают inerr.ErrUserNotFound.
func (s *Session) Login(ctx context.Context, login, password string) (string, error) {
	id, passwordHash, err := s.repository.FindByLogin(ctx, login)
	if err != nil {
		return "", inerr.ErrUserNotFound
	}

	if !s.hasher.Compare(password, passwordHash) {
		return "", inerr.ErrUserNotFound
	}

	return s.tokenProvider.GrantToken(ctx, id)
}
