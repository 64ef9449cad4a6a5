// roof-mri-backend/internal/handlers/webhook_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adam1capps/roof-mri-backend/internal/metrics"
)

// StripeWebhook принимает асинхронные события оплаты.
// Невалидная подпись — 400, пусть Stripe ретраит после починки секрета.
// Неизвестный correlation id — 200: бесконечные ретраи события, которое
// мы не можем разрешить, ничем не помогут. Ошибка БД — 500, это
// временное, доставка повторится.
func (h *Set) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read request body"})
		return
	}

	ev, relevant, err := h.gateway.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		slog.Warn("Вебхук Stripe не прошел проверку подписи", "error", err)
		metrics.WebhookEvents.WithLabelValues("invalid_signature").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}
	if !relevant {
		metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.ctrl.ConfirmPayment(c.Request.Context(), ev); err != nil {
		respondError(c, err)
		return
	}

	// Сбрасываем кэш статуса, чтобы поллинг сразу увидел оплату.
	if h.rdb != nil && ev.ProposalID != "" {
		if err := h.rdb.Del(c.Request.Context(), paymentStatusKey(ev.ProposalID)).Err(); err != nil {
			slog.Error("Redis DEL упал", "error", err, "id", ev.ProposalID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
