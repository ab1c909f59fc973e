package main

import (
	"context"
	"github.com/ivanpodgorny/bakesale/internal/client"
	"github.com/ivanpodgorny/bakesale/internal/config"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Запускается планировщиком (cron, Kubernetes CronJob) и один раз вызывает
// эндпоинт проверки просроченных заказов. Повторов нет: следующая попытка
// будет при следующем запуске по расписанию.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.LoadTrigger()
	if err != nil {
		logger.Error("ошибка загрузки настроек", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ограничение по времени задает client.SweepTimeout.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := entity.SweepOptions{
		DryRun:             cfg.DryRun,
		AutoCloseAfterDays: cfg.AutoCloseWindow(),
	}

	result, err := client.NewSweepTrigger(cfg.SweepURL, cfg.CronSecret).Trigger(ctx, opts)
	if err != nil {
		logger.Error("ошибка запуска проверки просроченных заказов", slog.String("url", cfg.SweepURL), slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}

	logger.Info(
		"проверка просроченных заказов выполнена",
		slog.Bool("dry_run", result.DryRun),
		slog.Int("found", result.Found),
		slog.Int("updated", result.Updated),
		slog.Int("cancelled", result.Cancelled),
	)
}
