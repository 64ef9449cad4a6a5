// roof-mri-backend/cmd/proposald/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adam1capps/roof-mri-backend/config"
	"github.com/adam1capps/roof-mri-backend/internal/handlers"
	"github.com/adam1capps/roof-mri-backend/internal/lifecycle"
	"github.com/adam1capps/roof-mri-backend/internal/notify"
	"github.com/adam1capps/roof-mri-backend/internal/payments"
	"github.com/adam1capps/roof-mri-backend/internal/routes"
	"github.com/adam1capps/roof-mri-backend/internal/store"
	"github.com/adam1capps/roof-mri-backend/models"
)

var rootCmd = &cobra.Command{
	Use:   "proposald",
	Short: "Roof MRI proposal service",
	Long:  "Issues training proposals, emails them to clients and tracks the sent/opened/signed/paid lifecycle.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		db := config.ConnectDB(cfg)
		if err := db.AutoMigrate(&models.Proposal{}); err != nil {
			slog.Error("Миграция не применилась", "error", err)
			os.Exit(1)
		}
		slog.Info("Схема БД актуальна")
	},
}

func serve() {
	cfg := config.Load()
	db := config.ConnectDB(cfg)
	if err := db.AutoMigrate(&models.Proposal{}); err != nil {
		slog.Error("Миграция не применилась", "error", err)
		os.Exit(1)
	}
	rdb := config.ConnectRedis(cfg)

	st := store.New(db)
	mailer := notify.NewMailer(cfg)
	gateway := payments.NewStripeGateway(cfg)

	hub := handlers.NewHub()
	go hub.Run()

	ctrl := lifecycle.NewController(st, mailer, gateway, cfg.BaseURL)
	ctrl.Events = hub

	h := handlers.New(cfg, ctrl, st, rdb, gateway, hub)
	r := routes.Setup(cfg, h)

	slog.Info("Запускаем сервер", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
	if err := r.Run(cfg.ListenAddr); err != nil {
		slog.Error("Сервер остановился с ошибкой", "error", err)
		os.Exit(1)
	}
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
