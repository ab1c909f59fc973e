package errors

import "errors"

var (
	ErrUserExists        = errors.New("user exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUnauthorized      = errors.New("Unauthorized")
	ErrOrderNotFound     = errors.New("order not found")
	ErrBakeSaleNotFound  = errors.New("bake sale not found")
	ErrReasonRequired    = errors.New("reason is required")
	ErrInvalidDate       = errors.New("date must be a valid YYYY-MM-DD date")
	ErrRecipientRequired = errors.New("recipient email is required")
	ErrInvalidRequest    = errors.New("invalid request body")
)
