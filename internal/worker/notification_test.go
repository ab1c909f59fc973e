package worker

import (
	"context"
	"errors"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) Send(_ context.Context, to, template string, variables map[string]string) error {
	args := m.Called(to, template, variables)

	return args.Error(0)
}

func TestNotificationSender_Do(t *testing.T) {
	var (
		ctx, cancel = context.WithCancel(context.Background())
		mailer      = &MailerMock{}
		queue       = make(chan entity.Notification, 4)
		failed      atomic.Int32
		jobs        = []entity.Notification{
			{
				To:        "a@example.com",
				Template:  entity.TemplateActionRequired,
				Variables: map[string]string{"orderReference": "ORDR-00001"},
			},
			{
				To:        "b@example.com",
				Template:  entity.TemplateOrderAutoCancelled,
				Variables: map[string]string{"orderReference": "ORDR-00002"},
			},
			{
				To:        "c@example.com",
				Template:  entity.TemplateBakeSaleCancelled,
				Variables: map[string]string{"reason": "Oven broke down"},
			},
			{
				To:        "d@example.com",
				Template:  entity.TemplateBakeSaleRescheduled,
				Variables: map[string]string{"newDate": "Monday, November 2, 2026"},
			},
		}
	)

	defer close(queue)

	for i := range jobs {
		j := jobs[i]
		queue <- j
		err := error(nil)
		if i == 1 {
			err = errors.New("mailbox unavailable")
		}
		mailer.On("Send", j.To, j.Template, j.Variables).Return(err).Once()
	}
	sender := NewNotificationSender(
		mailer,
		queue,
		&sync.WaitGroup{},
		4,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		func(entity.Notification, error) { failed.Add(1) },
	)

	sender.Do(ctx)

	assert.Eventually(
		t,
		func() bool { return len(queue) == 0 && failed.Load() == 1 },
		time.Second,
		10*time.Millisecond,
		"успешная обработка очереди",
	)

	cancel()
	sender.wg.Wait()
	for _, j := range jobs {
		queue <- j
	}
	assert.Never(
		t,
		func() bool { return len(queue) < 4 },
		100*time.Millisecond,
		10*time.Millisecond,
		"корректное завершение работы при отмене контекста",
	)

	mailer.AssertExpectations(t)
}
