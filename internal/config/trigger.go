package config

import (
	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

// TriggerConfig - настройки запуска проверки просроченных заказов по расписанию.
type TriggerConfig struct {
	SweepURL           string `env:"SWEEP_URL"`
	CronSecret         string `env:"CRON_SECRET"`
	DryRun             bool   `env:"SWEEP_DRY_RUN"`
	AutoCloseAfterDays int    `env:"AUTO_CLOSE_AFTER_DAYS"`
}

const (
	defaultSweepURL           = "http://localhost:8080/api/cron/overdue-orders"
	DefaultAutoCloseAfterDays = 7
)

// LoadTrigger загружает настройки из .env и переменных окружения.
func LoadTrigger() (*TriggerConfig, error) {
	_ = godotenv.Load()

	cfg := &TriggerConfig{
		SweepURL:           defaultSweepURL,
		AutoCloseAfterDays: DefaultAutoCloseAfterDays,
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AutoCloseWindow возвращает срок автоотмены для запроса. В режиме dry-run
// возвращает nil.
func (c *TriggerConfig) AutoCloseWindow() *int {
	if c.DryRun {
		return nil
	}

	days := c.AutoCloseAfterDays
	if days < 0 {
		days = DefaultAutoCloseAfterDays
	}

	return &days
}
