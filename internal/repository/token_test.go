package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/DATA-DOG/go-sqlmock"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var tokenNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestToken(t *testing.T) (*Token, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	r := NewToken(db, 24*time.Hour)
	r.now = func() time.Time { return tokenNow }

	return r, mock
}

func TestToken_Save(t *testing.T) {
	var (
		ctx   = context.Background()
		query = "INSERT INTO tokens (token, user_id, created_at) VALUES ($1, $2, $3)"
	)
	r, mock := newTestToken(t)

	mock.ExpectExec(query).
		WithArgs(digest("token"), 1, tokenNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(query).
		WithArgs(digest("token"), 2, tokenNow).
		WillReturnError(errors.New("foreign key violation"))

	assert.NoError(t, r.Save(ctx, "token", 1), "успешное сохранение токена")
	assert.Error(t, r.Save(ctx, "token", 2), "ошибка при сохранении токена")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToken_FindUserID(t *testing.T) {
	var (
		ctx     = context.Background()
		query   = "SELECT user_id FROM tokens WHERE token = $1 AND created_at > $2"
		validAt = tokenNow.Add(-24 * time.Hour)
	)
	r, mock := newTestToken(t)

	mock.ExpectQuery(query).
		WithArgs(digest("token"), validAt).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))
	mock.ExpectQuery(query).
		WithArgs(digest("expired"), validAt).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(query).
		WithArgs(digest("broken"), validAt).
		WillReturnError(errors.New("connection reset"))

	userID, err := r.FindUserID(ctx, "token")
	assert.NoError(t, err, "успешное получение id пользователя")
	assert.Equal(t, 7, userID)

	_, err = r.FindUserID(ctx, "expired")
	assert.ErrorIs(t, err, inerr.ErrUnauthorized, "токен не найден или истек")

	_, err = r.FindUserID(ctx, "broken")
	assert.Error(t, err, "ошибка базы данных")
	assert.NotErrorIs(t, err, inerr.ErrUnauthorized)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDigest(t *testing.T) {
	assert.Len(t, digest("token"), 64)
	assert.NotEqual(t, "token", digest("token"), "токен не хранится в открытом виде")
	assert.Equal(t, digest("token"), digest("token"))
}
