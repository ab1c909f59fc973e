package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

type SessionRequest struct {
	Login    string `json:"login" validate:"required,alphanum,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8,max=32"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	Date   string `json:"date" validate:"required,isodate"`
	Reason string `json:"reason"`
}

type IdentityProvider interface {
	UserIdentifier(*http.Request) (int, error)
}

type Validator interface {
	Struct(ctx context.Context, s any) error
	Var(ctx context.Context, field any, tag string) error
}

const maxBodyBytes = 1 << 20

// decodeJSON читает не больше maxBodyBytes из тела запроса. Пустое тело
// считается ошибкой, если allowEmpty не установлен.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}

		return io.EOF
	}

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func readJSONBody(v any, r *http.Request) error {
	return decodeJSON(r, v, false)
}

func readOptionalJSONBody(v any, r *http.Request) error {
	return decodeJSON(r, v, true)
}

func readJSONBodyAndValidate(ctx context.Context, v any, r *http.Request, validator Validator) error {
	if err := readJSONBody(v, r); err != nil {
		return err
	}

	return validator.Struct(ctx, v)
}
