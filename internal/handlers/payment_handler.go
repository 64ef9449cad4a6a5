// roof-mri-backend/internal/handlers/payment_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// paymentStatusTTL — сколько живет закэшированный статус оплаты.
// Страница предложения поллит этот эндпоинт, нет смысла ходить в БД
// на каждый тик.
const paymentStatusTTL = 10 * time.Second

func paymentStatusKey(id string) string {
	return "proposal:" + id + ":payment_status"
}

// CreateCheckout создает платежную сессию Stripe и возвращает redirect URL.
// Оплатить можно только подписанное и еще не оплаченное предложение
// с положительной суммой; ничего оплаченным здесь не помечается.
func (h *Set) CreateCheckout(c *gin.Context) {
	url, err := h.ctrl.CreatePaymentSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// PaymentStatus — легкий эндпоинт для поллинга со страницы предложения.
// Просмотр здесь не засчитывается никогда.
func (h *Set) PaymentStatus(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if h.rdb != nil {
		cached, err := h.rdb.Get(ctx, paymentStatusKey(id)).Result()
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"paymentStatus": cached})
			return
		}
		if err != redis.Nil {
			slog.Error("Redis GET упал, читаем из БД", "error", err, "id", id)
		}
	}

	p, err := h.ctrl.View(ctx, id, false)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Set(ctx, paymentStatusKey(id), p.PaymentStatus, paymentStatusTTL).Err(); err != nil {
			slog.Error("Redis SET упал", "error", err, "id", id)
		}
	}

	c.JSON(http.StatusOK, gin.H{"paymentStatus": p.PaymentStatus})
}
