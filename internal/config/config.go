package config

import (
	"flag"
	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"os"
)

type Config interface {
	ServerAddress() string
	HMACKey() string
	DatabaseURI() string
	CronSecret() string
	AppBaseURL() string
	SupportEmail() string
	MailerURL() string
	MailerAPIKey() string
	MailerFrom() string
	AMQPURL() string
	NotificationWorkers() int
	Environment() string
	AdminLogin() string
	AdminPassword() string
}

type Builder struct {
	parameters *parameters
	arguments  []string
	err        error
}

type parameters struct {
	ServerAddress       string `env:"RUN_ADDRESS"`
	HMACKey             string `env:"HMAC_KEY"`
	DatabaseURI         string `env:"DATABASE_URI"`
	CronSecret          string `env:"CRON_SECRET"`
	AppBaseURL          string `env:"APP_BASE_URL"`
	SupportEmail        string `env:"SUPPORT_EMAIL"`
	MailerURL           string `env:"MAILER_URL"`
	MailerAPIKey        string `env:"MAILER_API_KEY"`
	MailerFrom          string `env:"MAILER_FROM"`
	AMQPURL             string `env:"AMQP_URL"`
	NotificationWorkers int    `env:"NOTIFICATION_WORKERS"`
	Environment         string `env:"ENVIRONMENT"`
	AdminLogin          string `env:"ADMIN_LOGIN"`
	AdminPassword       string `env:"ADMIN_PASSWORD"`
}

const (
	defaultServerAddress       = "localhost:8080"
	defaultAppBaseURL          = "http://localhost:3000"
	DefaultSupportEmail        = "support@bakesale.local"
	defaultMailerFrom          = "orders@bakesale.local"
	defaultNotificationWorkers = 4
	defaultEnvironment         = "local"
)

func NewBuilder() *Builder {
	return &Builder{
		parameters: &parameters{
			ServerAddress:       defaultServerAddress,
			AppBaseURL:          defaultAppBaseURL,
			SupportEmail:        DefaultSupportEmail,
			MailerFrom:          defaultMailerFrom,
			NotificationWorkers: defaultNotificationWorkers,
			Environment:         defaultEnvironment,
		},
		arguments: os.Args[1:],
	}
}

func (b *Builder) SetDefaultServerAddress(addr string) *Builder {
	b.parameters.ServerAddress = addr

	return b
}

// LoadDotEnv загружает переменные из файла .env, если он есть. Уже заданные
// переменные окружения не перезаписываются.
func (b *Builder) LoadDotEnv() *Builder {
	_ = godotenv.Load()

	return b
}

func (b *Builder) LoadEnv() *Builder {
	if b.err != nil {
		return b
	}
	b.err = env.Parse(b.parameters)

	return b
}

func (b *Builder) LoadFlags() *Builder {
	if b.err != nil {
		return b
	}

	fs := flag.NewFlagSet("bakesale", flag.ContinueOnError)
	fs.StringVar(&b.parameters.ServerAddress, "a", b.parameters.ServerAddress, "адрес и порт запуска HTTP-сервера")
	fs.StringVar(&b.parameters.DatabaseURI, "d", b.parameters.DatabaseURI, "адрес подключения к PostgreSQL")
	fs.StringVar(&b.parameters.MailerURL, "m", b.parameters.MailerURL, "адрес сервиса отправки писем")
	b.err = fs.Parse(b.arguments)

	return b
}

func (b *Builder) Build() (Config, error) {
	return b, b.err
}

func (b *Builder) ServerAddress() string {
	return b.parameters.ServerAddress
}

func (b *Builder) HMACKey() string {
	return b.parameters.HMACKey
}

func (b *Builder) DatabaseURI() string {
	return b.parameters.DatabaseURI
}

func (b *Builder) CronSecret() string {
	return b.parameters.CronSecret
}

func (b *Builder) AppBaseURL() string {
	return b.parameters.AppBaseURL
}

func (b *Builder) SupportEmail() string {
	return b.parameters.SupportEmail
}

func (b *Builder) MailerURL() string {
	return b.parameters.MailerURL
}

func (b *Builder) MailerAPIKey() string {
	return b.parameters.MailerAPIKey
}

func (b *Builder) MailerFrom() string {
	return b.parameters.MailerFrom
}

func (b *Builder) AMQPURL() string {
	return b.parameters.AMQPURL
}

func (b *Builder) NotificationWorkers() int {
	if b.parameters.NotificationWorkers <= 0 {
		return defaultNotificationWorkers
	}

	return b.parameters.NotificationWorkers
}

func (b *Builder) Environment() string {
	return b.parameters.Environment
}

// AdminLogin и AdminPassword задают администратора, который создается при
// запуске сервера. Если логин не задан, администратор не создается.
func (b *Builder) AdminLogin() string {
	return b.parameters.AdminLogin
}

func (b *Builder) AdminPassword() string {
	return b.parameters.AdminPassword
}
