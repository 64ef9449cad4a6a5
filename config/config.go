// roof-mri-backend/config/config.go
package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Config — вся конфигурация приложения. Собирается один раз при старте
// и передается компонентам явно, без глобального состояния.
type Config struct {
	ListenAddr string
	BaseURL    string // базовый адрес для клиентских ссылок вида <base>/p/<id>

	DatabaseURL string
	RedisAddr   string

	JWTSecret         []byte
	AdminLogin        string
	AdminPasswordHash string // bcrypt-хэш пароля администратора

	StripeSecretKey     string
	StripeWebhookSecret string

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
	InternalEmail string // внутренний адрес: копии уведомлений о подписании и оплате
}

// Load читает конфигурацию из переменных окружения.
// Без БД и секретов приложению нечего делать, поэтому их отсутствие — фатальная ошибка.
func Load() *Config {
	cfg := &Config{
		ListenAddr:          getEnv("LISTEN_ADDR", ":8080"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseURL:         os.Getenv("DB_URL"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		AdminLogin:          getEnv("ADMIN_LOGIN", "admin"),
		AdminPasswordHash:   os.Getenv("ADMIN_PASSWORD_HASH"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		MailFrom:            getEnv("MAIL_FROM", "proposals@roofmri.com"),
		InternalEmail:       getEnv("INTERNAL_EMAIL", "sales@roofmri.com"),
	}

	if cfg.DatabaseURL == "" {
		slog.Error("Критическая ошибка: переменная окружения DB_URL не установлена.")
		os.Exit(1)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("Критическая ошибка: переменная окружения JWT_SECRET не установлена.")
		os.Exit(1)
	}
	cfg.JWTSecret = []byte(secret)

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		slog.Warn("Ключи Stripe не заданы, создание платежных сессий будет падать с ошибкой.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Неверное числовое значение переменной окружения, используем значение по умолчанию", "key", key, "value", v)
		return fallback
	}
	return n
}
