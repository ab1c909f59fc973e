package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"time"
)

// Token хранит сессии пользователей. В базе лежит только SHA-256 от токена.
type Token struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewToken(db *sql.DB, ttl time.Duration) *Token {
	return &Token{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

func (r *Token) Save(ctx context.Context, token string, userID int) error {
	_, err := r.db.ExecContext(
		ctx,
		"INSERT INTO tokens (token, user_id, created_at) VALUES ($1, $2, $3)",
		digest(token),
		userID,
		r.now().UTC(),
	)

	return err
}

// FindUserID возвращает идентификатор владельца токена. Токены старше ttl не
// учитываются. Если токен не найден или истек, возвращает inerr.ErrUnauthorized.
func (r *Token) FindUserID(ctx context.Context, token string) (int, error) {
	userID := 0
	err := r.db.QueryRowContext(
		ctx,
		"SELECT user_id FROM tokens WHERE token = $1 AND created_at > $2",
		digest(token),
		r.now().UTC().Add(-r.ttl),
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, inerr.ErrUnauthorized
	}

	return userID, err
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}
