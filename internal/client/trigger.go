package client

import (
	"context"
	"fmt"
	"github.com/imroc/req/v3"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"time"
)

const (
	// CronSecretHeader - заголовок с общим секретом для запуска проверки по расписанию.
	CronSecretHeader = "X-Cron-Secret"
	// SweepTimeout ограничивает один вызов Trigger целиком, включая ожидание
	// ответа сервера на время прохода по заказам.
	SweepTimeout = 5 * time.Minute
)

type SweepTrigger struct {
	req     *req.Client
	url     string
	secret  string
	timeout time.Duration
}

func NewSweepTrigger(url, secret string) *SweepTrigger {
	return &SweepTrigger{
		req:     req.C(),
		url:     url,
		secret:  secret,
		timeout: SweepTimeout,
	}
}

// Trigger запускает проверку просроченных заказов и возвращает ее результат.
// Повторные попытки не выполняются.
func (c *SweepTrigger) Trigger(ctx context.Context, opts entity.SweepOptions) (entity.SweepResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result := entity.SweepResult{}
	r := c.req.R().
		SetContext(ctx).
		SetBody(&opts).
		SetSuccessResult(&result)
	if c.secret != "" {
		r.SetHeader(CronSecretHeader, c.secret)
	}

	resp, err := r.Post(c.url)
	if err != nil {
		return result, err
	}

	if resp.IsErrorState() {
		return result, fmt.Errorf("sweep endpoint responded with status code %d", resp.StatusCode)
	}

	return result, nil
}
