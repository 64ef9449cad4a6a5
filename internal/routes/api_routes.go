// roof-mri-backend/internal/routes/api_routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adam1capps/roof-mri-backend/internal/handlers"
)

// RegisterPublicRoutes регистрирует маршруты, доступные без JWT:
// вход, healthcheck, клиентские операции над предложением и вебхук Stripe.
func RegisterPublicRoutes(r *gin.Engine, h *handlers.Set) {
	r.GET("/healthz", h.Health)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	api := r.Group("/api")
	{
		api.GET("/proposals/:id", h.GetProposal)
		api.POST("/proposals/:id/sign", h.SignProposal)
		api.POST("/proposals/:id/checkout", h.CreateCheckout)
		api.GET("/proposals/:id/payment-status", h.PaymentStatus)

		// Подпись события проверяется общим секретом внутри хэндлера.
		api.POST("/stripe/webhook", h.StripeWebhook)
	}
}

// RegisterAdminRoutes регистрирует внутренние маршруты команды продаж.
func RegisterAdminRoutes(g *gin.RouterGroup, h *handlers.Set) {
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := g.Group("/api")
	{
		api.POST("/proposals", h.CreateProposal)
		api.GET("/proposals", h.ListProposals)
		api.GET("/proposals/export", h.ExportProposals)
		api.GET("/events/ws", h.EventsWS)
	}
}
