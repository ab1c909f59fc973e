package client

import (
	"context"
	"encoding/json"
	"github.com/imroc/req/v3"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestSweepTrigger_Trigger(t *testing.T) {
	var (
		ctx     = context.Background()
		url     = "https://bakery.loc/api/cron/overdue-orders"
		r       = req.C()
		days    = 7
		secret  string
		options entity.SweepOptions
		result  = entity.SweepResult{
			Found:              2,
			Updated:            2,
			Cancelled:          1,
			AutoCloseAfterDays: &days,
			Results: []entity.SweepDecision{
				{ID: "ord_1", Status: entity.OrderStatusPending, NextStatus: entity.OrderStatusCancelled, BakeSaleDate: "2026-10-06", OverdueDays: 10},
				{ID: "ord_2", Status: entity.OrderStatusReady, NextStatus: entity.OrderStatusActionRequired, BakeSaleDate: "2026-10-14", OverdueDays: 2},
			},
		}
	)

	httpmock.ActivateNonDefault(r.GetClient())
	defer httpmock.DeactivateAndReset()

	b, err := json.Marshal(result)
	require.NoError(t, err)
	httpmock.RegisterResponder(
		"POST",
		url,
		func(request *http.Request) (*http.Response, error) {
			secret = request.Header.Get(CronSecretHeader)
			body, err := io.ReadAll(request.Body)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(body, &options); err != nil {
				return nil, err
			}

			resp := httpmock.NewBytesResponse(http.StatusOK, b)
			resp.Header.Set("Content-Type", "application/json")

			return resp, nil
		},
	)
	client := SweepTrigger{
		req:    r,
		url:    url,
		secret: "secret",
	}

	res, err := client.Trigger(ctx, entity.SweepOptions{AutoCloseAfterDays: &days})
	require.NoError(t, err, "успешный запуск проверки")
	assert.Equal(t, result, res, "успешный запуск проверки")
	assert.Equal(t, "secret", secret, "секрет передается в заголовке")
	require.NotNil(t, options.AutoCloseAfterDays)
	assert.Equal(t, days, *options.AutoCloseAfterDays)

	httpmock.RegisterResponder("POST", url, httpmock.NewStringResponder(http.StatusUnauthorized, ""))
	_, err = client.Trigger(ctx, entity.SweepOptions{DryRun: true})
	assert.Error(t, err, "ответ сервиса с ошибкой")
	assert.Equal(t, 2, httpmock.GetTotalCallCount(), "повторные попытки не выполняются")
}

func TestSweepTrigger_TriggerTimeout(t *testing.T) {
	var (
		url = "https://bakery.loc/api/cron/overdue-orders"
		r   = req.C()
	)

	httpmock.ActivateNonDefault(r.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(
		"POST",
		url,
		func(request *http.Request) (*http.Response, error) {
			<-request.Context().Done()

			return nil, request.Context().Err()
		},
	)
	client := SweepTrigger{
		req:     r,
		url:     url,
		timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	_, err := client.Trigger(context.Background(), entity.SweepOptions{})
	assert.Error(t, err, "проверка не уложилась в таймаут")
	assert.Less(t, time.Since(start), 5*time.Second, "вызов прерывается по таймауту клиента")
}

func TestNewSweepTrigger_Timeout(t *testing.T) {
	assert.Equal(t, SweepTimeout, NewSweepTrigger("https://bakery.loc", "").timeout)
}
