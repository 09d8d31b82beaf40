package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the order-flow counters exposed on /metrics.
type Metrics struct {
	OrdersPlaced      prometheus.Counter
	OrdersCancelled   prometheus.Counter
	StockRejections   prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	registry          *prometheus.Registry
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vendormarket",
			Name:      "orders_placed_total",
			Help:      "Orders successfully placed.",
		}),
		OrdersCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vendormarket",
			Name:      "orders_cancelled_total",
			Help:      "Orders cancelled with stock restitution.",
		}),
		StockRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "vendormarket",
			Name:      "insufficient_stock_total",
			Help:      "Placements rejected because a reservation failed.",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vendormarket",
			Name:      "order_status_transitions_total",
			Help:      "Applied order status transitions.",
		}, []string{"to"}),
		registry: reg,
	}
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
