// Package metrics exposes Prometheus counters for the delivery pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters. Registering twice on the same
// registry panics, so construct one per process (or per test registry).
type Metrics struct {
	WebhooksIngested  prometheus.Counter
	DeliveryAttempts  *prometheus.CounterVec
	DeliveriesSettled *prometheus.CounterVec
	AttemptsPruned    prometheus.Counter
}

// New creates and registers the pipeline metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		WebhooksIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "hookline_webhooks_ingested_total",
			Help: "Webhooks accepted for delivery.",
		}),
		DeliveryAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hookline_delivery_attempts_total",
			Help: "Delivery attempts by outcome.",
		}, []string{"outcome"}),
		DeliveriesSettled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hookline_deliveries_settled_total",
			Help: "Deliveries that reached a terminal status.",
		}, []string{"status"}),
		AttemptsPruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "hookline_attempts_pruned_total",
			Help: "Attempt log rows removed by the retention sweeper.",
		}),
	}
}

// NewDefault registers the metrics on the default Prometheus registry.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
