package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Order struct {
	ID            string        `json:"id"`
	Number        int64         `json:"order_number,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	BakeSaleID    string        `json:"bake_sale_id,omitempty"`
	BakeSaleDate  time.Time     `json:"bake_sale_date,omitempty"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	CustomerName  string        `json:"customer_name,omitempty"`
}

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusActionRequired OrderStatus = "action_required"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusFulfilled      OrderStatus = "fulfilled"
)

// InFlightStatuses - статусы заказов, которые проверяет поиск просроченных заказов.
var InFlightStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusReady,
}

// TerminalStatuses - конечные статусы, которые не меняются ни проверкой, ни отменой распродажи.
var TerminalStatuses = []OrderStatus{
	OrderStatusCancelled,
	OrderStatusFulfilled,
}

func (s OrderStatus) Terminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}

	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// HasDate сообщает, привязан ли заказ к распродаже с датой.
func (o Order) HasDate() bool {
	return !o.BakeSaleDate.IsZero()
}

// Reference возвращает номер заказа для показа покупателю.
func (o Order) Reference() string {
	return FormatOrderReference(o.ID, o.Number)
}

var (
	referencePrefix = regexp.MustCompile(`(?i)^ord[-_]?`)
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// FormatOrderReference возвращает номер вида ORDR-00123, если порядковый номер
// заказа положительный. Иначе из идентификатора убирается префикс ord/ord-/ord_,
// все символы кроме букв и цифр, и берутся первые 6 символов в верхнем регистре.
func FormatOrderReference(id string, number int64) string {
	if number > 0 {
		return fmt.Sprintf("ORDR-%05d", number)
	}

	token := nonAlphanumeric.ReplaceAllString(referencePrefix.ReplaceAllString(id, ""), "")
	if len(token) > 6 {
		token = token[:6]
	}
	if token == "" {
		token = "ORDER"
	}

	return "ORDR-" + strings.ToUpper(token)
}
