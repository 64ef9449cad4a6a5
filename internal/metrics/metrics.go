// roof-mri-backend/internal/metrics/metrics.go

// Package metrics — счетчики жизненного цикла для Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProposalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposals_created_total",
		Help: "Number of proposals created.",
	})

	ProposalsSigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposals_signed_total",
		Help: "Number of successful sign transitions.",
	})

	ProposalsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proposals_paid_total",
		Help: "Number of successful payment confirmations.",
	})

	// WebhookEvents считает исходы обработки вебхуков Stripe:
	// ok, duplicate, unknown, ignored, invalid_signature.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook deliveries by processing result.",
	}, []string{"result"})
)
