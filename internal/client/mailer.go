package client

import (
	"context"
	"fmt"
	"github.com/imroc/req/v3"
	inerr "github.com/ivanpodgorny/bakesale/internal/errors"
	"net/http"
	"time"
)

type Mailer struct {
	req  *req.Client
	from string
}

type sendEmailRequest struct {
	From      string            `json:"from"`
	To        string            `json:"to"`
	Template  string            `json:"template"`
	Variables map[string]string `json:"variables"`
}

func NewMailer(addr, apiKey, from string) *Mailer {
	return &Mailer{
		req: req.C().
			SetBaseURL(addr).
			SetCommonBearerAuthToken(apiKey).
			SetTimeout(10 * time.Second),
		from: from,
	}
}

// Send отправляет запрос к сервису рассылки на отправку письма по шаблону template.
// При ответе сервиса с кодом 429 повторяет запрос не более двух раз с интервалом
// в 5 секунд.
func (c *Mailer) Send(ctx context.Context, to, template string, variables map[string]string) error {
	if to == "" {
		return inerr.ErrRecipientRequired
	}

	resp, err := c.req.R().
		SetContext(ctx).
		SetRetryCount(2).
		SetRetryFixedInterval(5*time.Second).
		SetRetryCondition(func(resp *req.Response, err error) bool {
			return err == nil && resp.StatusCode == http.StatusTooManyRequests
		}).
		SetBody(&sendEmailRequest{
			From:      c.from,
			To:        to,
			Template:  template,
			Variables: variables,
		}).
		Post("/emails")
	if err != nil {
		return err
	}

	if resp.IsErrorState() {
		return fmt.Errorf("mailer responded with status code %d", resp.StatusCode)
	}

	return nil
}
