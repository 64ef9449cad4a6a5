// roof-mri-backend/config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis открывает подключение к Redis для кэширования статуса оплаты.
// Redis не обязателен: если REDIS_ADDR не задан или соединение не удалось,
// возвращается nil и кэширование просто отключается.
func ConnectRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		slog.Warn("Переменная окружения REDIS_ADDR не установлена, кэширование будет отключено.")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("Не удалось подключиться к Redis", "error", err)
		return nil
	}

	slog.Info("Успешное подключение к Redis!")
	return rdb
}
