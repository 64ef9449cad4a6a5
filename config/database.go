// roof-mri-backend/config/database.go
package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB открывает подключение к Postgres по DSN из конфигурации.
// TranslateError нужен, чтобы нарушение уникального индекса приходило
// как gorm.ErrDuplicatedKey, а не как сырая ошибка драйвера.
func ConnectDB(cfg *Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("Ошибка подключения к БД", "error", err)
		os.Exit(1)
	}

	slog.Info("Успешное подключение к базе данных!")
	return db
}
