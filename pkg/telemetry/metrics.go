// Package telemetry holds the process-wide Prometheus collectors.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentLinksCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fakturo",
		Name:      "payment_links_created_total",
		Help:      "Hosted payment links created, by provider.",
	}, []string{"provider"})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fakturo",
		Name:      "payment_webhook_events_total",
		Help:      "Webhook events received, by provider and outcome.",
	}, []string{"provider", "outcome"})
)
