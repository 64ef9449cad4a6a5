// roof-mri-backend/internal/payments/stripe.go

// Package payments — адаптер платежного провайдера (Stripe Checkout).
// Создает hosted-сессии с proposal id в metadata и проверяет подпись
// входящих вебхуков. Состояние предложения здесь не трогается.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/adam1capps/roof-mri-backend/config"
	"github.com/adam1capps/roof-mri-backend/internal/lifecycle"
	"github.com/adam1capps/roof-mri-backend/models"
)

// metadataKey — ключ correlation id в metadata платежной сессии.
const metadataKey = "proposal_id"

// MinorUnits переводит сумму в долларах в центы с округлением
// до ближайшего целого, как того требует Stripe API.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type StripeGateway struct {
	webhookSecret string
	baseURL       string
}

func NewStripeGateway(cfg *config.Config) *StripeGateway {
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{
		webhookSecret: cfg.StripeWebhookSecret,
		baseURL:       cfg.BaseURL,
	}
}

// CreateCheckoutSession создает hosted-страницу оплаты. Proposal id
// уезжает в metadata, чтобы вебхук потом нашел нужную запись.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p *models.Proposal) (lifecycle.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(MinorUnits(*p.TotalPrice)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Roof MRI training package — %s", p.Company)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.baseURL + "/p/" + p.ID + "?paid=1"),
		CancelURL:  stripe.String(g.baseURL + "/p/" + p.ID),
	}
	params.Context = ctx
	params.AddMetadata(metadataKey, p.ID)

	s, err := session.New(params)
	if err != nil {
		return lifecycle.CheckoutSession{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return lifecycle.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhook проверяет подпись события общим секретом и вытаскивает
// correlation id. Возвращает relevant=false для событий, которые нас
// не интересуют. Ошибка означает невалидную подпись или мусор в теле —
// такое событие отвергается, пусть провайдер доставит заново.
func (g *StripeGateway) ParseWebhook(payload []byte, signatureHeader string) (lifecycle.PaymentEvent, bool, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return lifecycle.PaymentEvent{}, false, fmt.Errorf("webhook signature verification: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return lifecycle.PaymentEvent{}, false, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return lifecycle.PaymentEvent{}, false, fmt.Errorf("webhook payload: %w", err)
	}

	return lifecycle.PaymentEvent{
		ProposalID: sess.Metadata[metadataKey],
		SessionID:  sess.ID,
	}, true, nil
}
