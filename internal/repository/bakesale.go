package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"time"
)

type BakeSale struct {
	db *sql.DB
}

func NewBakeSale(db *sql.DB) *BakeSale {
	return &BakeSale{db: db}
}

// FindByID возвращает распродажу по идентификатору. Если распродажа не найдена,
// возвращает ошибку errors.ErrBakeSaleNotFound.
func (r *BakeSale) FindByID(ctx context.Context, id string) (entity.BakeSale, error) {
	bs := entity.BakeSale{}
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, date, location_id, is_active FROM bake_sales WHERE id = $1",
		id,
	).Scan(&bs.ID, &bs.Date, &bs.LocationID, &bs.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.BakeSale{}, inerr.ErrBakeSaleNotFound
	}

	return bs, err
}

// Cancel в одной транзакции отключает распродажу и переводит все привязанные к ней
// незавершенные заказы в статус entity.OrderStatusCancelled. Возвращает измененные заказы.
func (r *BakeSale) Cancel(ctx context.Context, id string) ([]entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err = updateOne(ctx, tx, "UPDATE bake_sales SET is_active = false WHERE id = $1", id); err != nil {
		_ = tx.Rollback()

		return nil, err
	}

	orders, err := queryOrders(ctx, tx, `
UPDATE orders
SET status     = 'cancelled',
    updated_at = now()
WHERE bake_sale_id = $1
  AND status NOT IN ('cancelled', 'fulfilled')
RETURNING id, order_number, status, payment_status, bake_sale_id, customer_email, customer_name
	`, id)
	if err != nil {
		_ = tx.Rollback()

		return nil, err
	}

	if err = tx.Commit(); err != nil {
		_ = tx.Rollback()

		return nil, err
	}

	return orders, nil
}

// Reschedule в одной транзакции переносит распродажу на date и возвращает привязанные
// к ней незавершенные заказы. Статусы заказов не меняются.
func (r *BakeSale) Reschedule(ctx context.Context, id string, date time.Time) ([]entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err = updateOne(ctx, tx, "UPDATE bake_sales SET date = $1 WHERE id = $2", date.Format(entity.DateLayout), id); err != nil {
		_ = tx.Rollback()

		return nil, err
	}

	orders, err := queryOrders(ctx, tx, `
SELECT id, order_number, status, payment_status, bake_sale_id, customer_email, customer_name
FROM orders
WHERE bake_sale_id = $1
  AND status NOT IN ('cancelled', 'fulfilled')
ORDER BY id
	`, id)
	if err != nil {
		_ = tx.Rollback()

		return nil, err
	}

	if err = tx.Commit(); err != nil {
		_ = tx.Rollback()

		return nil, err
	}

	return orders, nil
}

func updateOne(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return inerr.ErrBakeSaleNotFound
	}

	return nil
}

func queryOrders(ctx context.Context, tx *sql.Tx, query string, args ...any) (orders []entity.Order, err error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
