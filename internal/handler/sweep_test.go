package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"github.com/ivanpodgorny/bakesale/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"strings"
	"testing"
)

type SweeperMock struct {
	mock.Mock
}

func (m *SweeperMock) Run(_ context.Context, opts entity.SweepOptions) (entity.SweepResult, error) {
	args := m.Called(opts)

	return args.Get(0).(entity.SweepResult), args.Error(1)
}

func newTestSweepHandler(t *testing.T, s Sweeper) *Sweep {
	v10, err := validator.NewEngine()
	require.NoError(t, err)

	return NewSweep(s, validator.New(v10), testLogger())
}

func TestSweep_Run(t *testing.T) {
	seven := 7
	tests := []struct {
		name     string
		method   string
		body     io.Reader
		wantOpts entity.SweepOptions
	}{
		{
			name:     "GET без тела",
			method:   http.MethodGet,
			wantOpts: entity.SweepOptions{},
		},
		{
			name:     "POST с пустым телом",
			method:   http.MethodPost,
			body:     strings.NewReader("  "),
			wantOpts: entity.SweepOptions{},
		},
		{
			name:     "POST в режиме проверки",
			method:   http.MethodPost,
			body:     strings.NewReader(`{"dryRun": true}`),
			wantOpts: entity.SweepOptions{DryRun: true},
		},
		{
			name:     "POST с автоотменой",
			method:   http.MethodPost,
			body:     strings.NewReader(`{"dryRun": false, "autoCloseAfterDays": 7}`),
			wantOpts: entity.SweepOptions{AutoCloseAfterDays: &seven},
		},
		{
			name:     "автоотмена отключена явно",
			method:   http.MethodPost,
			body:     strings.NewReader(`{"autoCloseAfterDays": null}`),
			wantOpts: entity.SweepOptions{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				sweeper = &SweeperMock{}
				want    = entity.SweepResult{
					DryRun:             tt.wantOpts.DryRun,
					Found:              1,
					Updated:            1,
					AutoCloseAfterDays: tt.wantOpts.AutoCloseAfterDays,
					Results: []entity.SweepDecision{{
						ID:           "ord_1",
						Status:       entity.OrderStatusPending,
						NextStatus:   entity.OrderStatusActionRequired,
						BakeSaleDate: "2026-10-14",
						OverdueDays:  2,
					}},
				}
			)
			sweeper.On("Run", tt.wantOpts).Return(want, nil).Once()

			result := sendTestRequest(tt.method, tt.body, newTestSweepHandler(t, sweeper).Run)
			defer func() {
				require.NoError(t, result.Body.Close())
			}()
			assert.Equal(t, http.StatusOK, result.StatusCode)
			assert.Equal(t, "application/json", result.Header.Get("Content-Type"))

			var got entity.SweepResult
			require.NoError(t, json.NewDecoder(result.Body).Decode(&got))
			assert.Equal(t, want, got)
			sweeper.AssertExpectations(t)
		})
	}
}

func TestSweep_RunRejected(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "некорректный JSON",
			body:           `{"dryRun": `,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "неверный тип поля",
			body:           `{"dryRun": "yes"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "отрицательное число дней",
			body:           `{"autoCloseAfterDays": -1}`,
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := &SweeperMock{}

			result := sendTestRequest(http.MethodPost, bytes.NewBufferString(tt.body), newTestSweepHandler(t, sweeper).Run)
			assert.Equal(t, tt.wantStatusCode, result.StatusCode)
			require.NoError(t, result.Body.Close())
			sweeper.AssertNotCalled(t, "Run", mock.Anything)
		})
	}
}

func TestSweep_RunServerError(t *testing.T) {
	sweeper := &SweeperMock{}
	sweeper.On("Run", entity.SweepOptions{}).Return(entity.SweepResult{}, errors.New("connection refused")).Once()

	result := sendTestRequest(http.MethodPost, nil, newTestSweepHandler(t, sweeper).Run)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	require.NoError(t, result.Body.Close())
	sweeper.AssertExpectations(t)
}
