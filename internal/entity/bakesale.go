package entity

import "time"

// DateLayout - формат даты распродажи с точностью до дня.
const DateLayout = "2006-01-02"

type BakeSale struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	LocationID string    `json:"location_id"`
	IsActive   bool      `json:"is_active"`
}

// ActionResult - результат административного действия над распродажей.
// Err хранит исходную ошибку для HTTP-слоя и не сериализуется.
type ActionResult struct {
	Success bool        `json:"success"`
	Data    *ActionData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Err     error       `json:"-"`
}

type ActionData struct {
	AffectedOrders int `json:"affectedOrders"`
}

func ActionSucceeded(affected int) ActionResult {
	return ActionResult{
		Success: true,
		Data:    &ActionData{AffectedOrders: affected},
	}
}

func ActionFailed(err error) ActionResult {
	return ActionResult{
		Success: false,
		Error:   err.Error(),
		Err:     err,
	}
}
