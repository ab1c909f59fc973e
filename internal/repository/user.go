package repository

import (
	"context"
	"database/sql"
	"errors"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const RoleAdmin = "admin"

type User struct {
	db *sql.DB
}

func NewUser(db *sql.DB) *User {
	return &User{db: db}
}

// Create создает нового пользователя с ролью role и возвращает его id. Если
// пользователь с переданным login существует, возвращает ошибку errors.ErrUserExists.
func (r *User) Create(ctx context.Context, login, passwordHash, role string) (int, error) {
	id := 0
	err := r.db.QueryRowContext(
		ctx,
		"INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id",
		login,
		passwordHash,
		role,
	).Scan(&id)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return 0, inerr.ErrUserExists
	}

	return id, err
}

// FindByLogin возвращает id и хэш пароля пользователя с переданным login.
func (r *User) FindByLogin(ctx context.Context, login string) (int, string, error) {
	var (
		id   = 0
		hash = ""
	)
	err := r.db.QueryRowContext(ctx, "SELECT id, password_hash FROM users WHERE login = $1", login).Scan(&id, &hash)

	return id, hash, err
}

// IsAdmin проверяет, что пользователю назначена роль администратора.
func (r *User) IsAdmin(ctx context.Context, userID int) (bool, error) {
	role := ""
	err := r.db.QueryRowContext(ctx, "SELECT role FROM users WHERE id = $1", userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	return role == RoleAdmin, err
}
