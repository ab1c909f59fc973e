package worker

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"log/slog"
	"sync"
)

// NotificationSender получает письма из очереди и отправляет их через Mailer.
// Для отправки создается NotificationSender.workersCount воркеров. Ошибки отправки
// не повторяются: они логируются и передаются в onError, если он задан.
type NotificationSender struct {
	mailer       Mailer
	queue        <-chan entity.Notification
	wg           *sync.WaitGroup
	workersCount int
	logger       *slog.Logger
	onError      func(entity.Notification, error)
}

type Mailer interface {
	Send(ctx context.Context, to, template string, variables map[string]string) error
}

func NewNotificationSender(
	m Mailer,
	q <-chan entity.Notification,
	wg *sync.WaitGroup,
	w int,
	l *slog.Logger,
	onError func(entity.Notification, error),
) *NotificationSender {
	return &NotificationSender{
		mailer:       m,
		queue:        q,
		wg:           wg,
		workersCount: w,
		logger:       l,
		onError:      onError,
	}
}

func (s *NotificationSender) Do(ctx context.Context) {
	for i := 0; i < s.workersCount; i++ {
		s.wg.Add(1)

		go s.worker(ctx)
	}
}

func (s *NotificationSender) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case n, ok := <-s.queue:
			if !ok {
				return
			}

			if err := s.mailer.Send(ctx, n.To, n.Template, n.Variables); err != nil {
				s.logger.ErrorContext(
					ctx,
					"ошибка отправки письма",
					slog.String("template", n.Template),
					slog.String("error", err.Error()),
				)
				if s.onError != nil {
					s.onError(n, err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
