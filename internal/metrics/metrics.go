// Package metrics registers the shop's Prometheus counters on the default
// registry; the /metrics route serves them via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts orders persisted by checkout, paid or not.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Number of orders created by checkout.",
	})

	// PaymentsVerified counts successful payment claims by reconciliation path.
	PaymentsVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Number of orders marked paid, by reconciliation path.",
	}, []string{"path"})

	// WebhookRejected counts webhook deliveries rejected before any state change.
	WebhookRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_rejected_total",
		Help: "Number of webhook deliveries rejected, by reason.",
	}, []string{"reason"})
)
