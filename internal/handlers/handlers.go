// roof-mri-backend/internal/handlers/handlers.go

// Package handlers — HTTP-слой поверх контроллера жизненного цикла.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/adam1capps/roof-mri-backend/config"
	"github.com/adam1capps/roof-mri-backend/internal/lifecycle"
	"github.com/adam1capps/roof-mri-backend/internal/payments"
	"github.com/adam1capps/roof-mri-backend/internal/store"
)

// Set держит зависимости всех хэндлеров. Собирается один раз при старте.
type Set struct {
	cfg     *config.Config
	ctrl    *lifecycle.Controller
	store   *store.ProposalStore
	rdb     *redis.Client // может быть nil, тогда кэширования нет
	gateway *payments.StripeGateway
	hub     *Hub
}

func New(cfg *config.Config, ctrl *lifecycle.Controller, st *store.ProposalStore, rdb *redis.Client, gateway *payments.StripeGateway, hub *Hub) *Set {
	return &Set{cfg: cfg, ctrl: ctrl, store: st, rdb: rdb, gateway: gateway, hub: hub}
}

func (h *Set) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError переводит ошибки доменного слоя в HTTP-статусы.
// Conflict и PreconditionFailed отдаются отдельно, чтобы клиентская
// страница могла показать "уже подписано" вместо безликой ошибки.
func respondError(c *gin.Context, err error) {
	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
	case errors.Is(err, lifecycle.ErrAlreadySigned):
		c.JSON(http.StatusConflict, gin.H{"error": "Proposal is already signed"})
	case errors.Is(err, lifecycle.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "Proposal is already paid"})
	case errors.Is(err, lifecycle.ErrNotSigned):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Proposal must be signed before payment"})
	default:
		slog.Error("Внутренняя ошибка обработчика", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
