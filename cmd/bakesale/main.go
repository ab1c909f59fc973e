package main

import (
	"context"
	"database/sql"
	"errors"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/ivanpodgorny/bakesale/internal/cache"
	"github.com/ivanpodgorny/bakesale/internal/client"
	"github.com/ivanpodgorny/bakesale/internal/config"
	"github.com/ivanpodgorny/bakesale/internal/entity"
	"github.com/ivanpodgorny/bakesale/internal/handler"
	"github.com/ivanpodgorny/bakesale/internal/middleware"
	"github.com/ivanpodgorny/bakesale/internal/migrations"
	"github.com/ivanpodgorny/bakesale/internal/observability"
	"github.com/ivanpodgorny/bakesale/internal/repository"
	"github.com/ivanpodgorny/bakesale/internal/security"
	"github.com/ivanpodgorny/bakesale/internal/service"
	"github.com/ivanpodgorny/bakesale/internal/validator"
	"github.com/ivanpodgorny/bakesale/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const (
	serviceName     = "bakesale"
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := Execute(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("сервер остановлен с ошибкой", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func Execute() error {
	cfg, err := config.NewBuilder().LoadDotEnv().LoadFlags().LoadEnv().Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instruments, shutdownTelemetry, err := observability.Init(ctx, serviceName, cfg.Environment())
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdownTelemetry(context.Background())
	}()
	logger := instruments.Logger

	db, err := sql.Open("pgx", cfg.DatabaseURI())
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	if err := migrations.Up(db); err != nil {
		return err
	}

	validationEngine, err := validator.NewEngine()
	if err != nil {
		return err
	}

	invalidator, closeCache, err := newCacheInvalidator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	var (
		workerCtx, cancel = context.WithCancel(context.Background())
		r                 = chi.NewRouter()
		v                 = validator.New(validationEngine)
		a                 = security.NewAuthenticator(security.NewHMACSigner(cfg.HMACKey()), repository.NewToken(db, tokenTTL))
		wg                = &sync.WaitGroup{}
		notifications     = make(chan entity.Notification, 64)
		ur                = repository.NewUser(db)
		or                = repository.NewOrder(db)
		ns                = worker.NewNotificationSender(
			client.NewMailer(cfg.MailerURL(), cfg.MailerAPIKey(), cfg.MailerFrom()),
			notifications,
			wg,
			cfg.NotificationWorkers(),
			logger,
			observability.NotificationFailures(instruments),
		)
		nc = service.NotificationConfig{
			BaseURL:      cfg.AppBaseURL(),
			SupportEmail: cfg.SupportEmail(),
		}
		ss = service.NewSession(ur, security.NewArgonHasher(security.DefaultHashConfig()), a)
		sw = observability.NewSweeper(service.NewSweep(or, notifications, invalidator, logger, nc), instruments)
		ds = observability.NewDisruptor(
			service.NewDisruption(repository.NewBakeSale(db), ur, notifications, invalidator, logger, nc),
			instruments,
		)
		sh  = handler.NewSession(ss, v)
		swh = handler.NewSweep(sw, v, logger)
		bh  = handler.NewBakeSale(ds, or, ur, a, v, logger)
	)

	defer func() {
		cancel()
		wg.Wait()
	}()

	ns.Do(workerCtx)

	if login := cfg.AdminLogin(); login != "" {
		if err := ss.EnsureAdmin(ctx, login, cfg.AdminPassword()); err != nil {
			return err
		}
	}

	if cfg.CronSecret() == "" {
		logger.Warn("CRON_SECRET не задан, эндпоинт проверки просроченных заказов открыт")
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", sh.Register)
		r.Post("/login", sh.Login)
	})

	r.Route("/api/admin/bake-sales/{id}", func(r chi.Router) {
		r.Use(middleware.Authenticate(a))

		r.Get("/orders", bh.Orders)
		r.Post("/cancel", bh.Cancel)
		r.Post("/reschedule", bh.Reschedule)
	})

	r.Route("/api/cron", func(r chi.Router) {
		r.Use(middleware.CronSecret(cfg.CronSecret(), logger))

		r.Get("/overdue-orders", swh.Run)
		r.Post("/overdue-orders", swh.Run)
	})

	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("сервер запущен", slog.String("address", cfg.ServerAddress()))

	return server.ListenAndServe()
}

// newCacheInvalidator рассылает сброс кэша через RabbitMQ, если задан AMQP_URL,
// и подписывает локальный реестр на сбросы от других экземпляров. Иначе
// сбрасывает только локальный реестр.
func newCacheInvalidator(ctx context.Context, cfg config.Config, logger *slog.Logger) (service.CacheInvalidator, func(), error) {
	registry := cache.NewRegistry()
	if cfg.AMQPURL() == "" {
		return registry, func() {}, nil
	}

	channel, closeConn, err := cache.Dial(cfg.AMQPURL())
	if err != nil {
		return nil, nil, err
	}

	go func() {
		if err := cache.Subscribe(ctx, channel, registry, logger); err != nil {
			logger.Error("ошибка подписки на сброс кэша", slog.String("error", err.Error()))
		}
	}()

	return cache.NewBroadcaster(channel, registry, logger), closeConn, nil
}
