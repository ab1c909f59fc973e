package validator

import (
	"context"
	v10validator "github.com/go-playground/validator/v10"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"reflect"
	"strings"
	"time"
)

// ISODateTag - тег правила для дат распродаж в формате YYYY-MM-DD.
const ISODateTag = "isodate"

type Validator struct {
	engine Engine
}

type Engine interface {
	StructCtx(ctx context.Context, s any) error
	VarCtx(ctx context.Context, field any, tag string) error
}

func New(e Engine) *Validator {
	return &Validator{engine: e}
}

// NewEngine возвращает validator/v10 с зарегистрированным правилом isodate.
// В сообщениях об ошибках используются имена полей из json тегов.
func NewEngine() (*v10validator.Validate, error) {
	v10 := v10validator.New()
	v10.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	if err := v10.RegisterValidation(ISODateTag, ISODate); err != nil {
		return nil, err
	}

	return v10, nil
}

func (v *Validator) Struct(ctx context.Context, s any) error {
	return v.engine.StructCtx(ctx, s)
}

func (v *Validator) Var(ctx context.Context, field any, tag string) error {
	return v.engine.VarCtx(ctx, field, tag)
}

// ISODate проверяет, что строка является существующей календарной датой YYYY-MM-DD.
func ISODate(fl v10validator.FieldLevel) bool {
	val := fl.Field()
	if val.Kind() != reflect.String {
		return false
	}

	_, err := time.Parse(entity.DateLayout, val.String())

	return err == nil
}
