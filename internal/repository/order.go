package repository

import (
	"context"
	"database/sql"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"strings"
)

type Order struct {
	db *sql.DB
}

type scanner interface {
	Scan(dest ...any) error
}

func NewOrder(db *sql.DB) *Order {
	return &Order{db: db}
}

// FindOverdue возвращает заказы со статусом из statuses, дата распродажи которых
// строго раньше before (YYYY-MM-DD). Заказы отсортированы по дате распродажи.
func (r *Order) FindOverdue(ctx context.Context, statuses []entity.OrderStatus, before string) (orders []entity.Order, err error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.id, o.order_number, o.status, o.payment_status, o.bake_sale_id, bs.date, o.customer_email, o.customer_name
FROM orders o
         JOIN bake_sales bs ON bs.id = o.bake_sale_id
WHERE o.status::text = ANY (string_to_array($1, ','))
  AND bs.date < $2
ORDER BY bs.date, o.id
	`, joinStatuses(statuses), before)
	if err != nil {
		return nil, err
	}

	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		order, err := scanOrderWithDate(rows)
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

// UpdateStatus обновляет статус одного заказа и возвращает сохраненную запись.
// Если заказ не найден, возвращает ошибку errors.ErrOrderNotFound.
func (r *Order) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (entity.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `
UPDATE orders
SET status     = $1,
    updated_at = now()
WHERE id = $2
RETURNING id, order_number, status, payment_status, bake_sale_id, customer_email, customer_name
	`, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, inerr.ErrOrderNotFound
	}

	return order, err
}

// FindByBakeSale возвращает все заказы, привязанные к распродаже.
func (r *Order) FindByBakeSale(ctx context.Context, bakeSaleID string) (orders []entity.Order, err error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT o.id, o.order_number, o.status, o.payment_status, o.bake_sale_id, bs.date, o.customer_email, o.customer_name
FROM orders o
         JOIN bake_sales bs ON bs.id = o.bake_sale_id
WHERE o.bake_sale_id = $1
ORDER BY o.id
	`, bakeSaleID)
	if err != nil {
		return nil, err
	}

	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	for rows.Next() {
		order, err := scanOrderWithDate(rows)
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

func scanOrder(row scanner) (entity.Order, error) {
	var (
		order      entity.Order
		number     sql.NullInt64
		bakeSaleID sql.NullString
	)
	err := row.Scan(
		&order.ID,
		&number,
		&order.Status,
		&order.PaymentStatus,
		&bakeSaleID,
		&order.CustomerEmail,
		&order.CustomerName,
	)
	order.Number = number.Int64
	order.BakeSaleID = bakeSaleID.String

	return order, err
}

func scanOrderWithDate(row scanner) (entity.Order, error) {
	var (
		order      entity.Order
		number     sql.NullInt64
		bakeSaleID sql.NullString
		date       sql.NullTime
	)
	err := row.Scan(
		&order.ID,
		&number,
		&order.Status,
		&order.PaymentStatus,
		&bakeSaleID,
		&date,
		&order.CustomerEmail,
		&order.CustomerName,
	)
	order.Number = number.Int64
	order.BakeSaleID = bakeSaleID.String
	order.BakeSaleDate = date.Time

	return order, err
}

func joinStatuses(statuses []entity.OrderStatus) string {
	s := make([]string, 0, len(statuses))
	for _, status := range statuses {
		s = append(s, string(status))
	}

	return strings.Join(s, ",")
}
