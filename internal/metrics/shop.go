package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// ShopMetrics records storefront events.
type ShopMetrics struct {
	cartAdds      *prometheus.CounterVec
	ordersPlaced  prometheus.Counter
	orderFailures *prometheus.CounterVec
	orderValue    prometheus.Histogram
	messages      *prometheus.CounterVec
}

// NewShopMetrics registers the shop collectors on reg. A nil registerer yields
// a no-op recorder.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	cartAdds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweetshop_cart_adds_total",
		Help: "Full-carton add attempts by outcome.",
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sweetshop_orders_placed_total",
		Help: "Orders written to the document.",
	})
	orderFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweetshop_order_failures_total",
		Help: "Rejected checkout attempts by reason.",
	}, []string{"reason"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sweetshop_order_value",
		Help:    "Order totals in currency units.",
		Buckets: prometheus.ExponentialBuckets(500, 2, 10),
	})
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweetshop_contact_messages_total",
		Help: "Contact form submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(cartAdds, ordersPlaced, orderFailures, orderValue, messages)
	return &ShopMetrics{
		cartAdds:      cartAdds,
		ordersPlaced:  ordersPlaced,
		orderFailures: orderFailures,
		orderValue:    orderValue,
		messages:      messages,
	}
}

func (m *ShopMetrics) IncCartAdd(ok bool) {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.WithLabelValues(outcome(ok)).Inc()
}

func (m *ShopMetrics) ObserveOrder(total decimal.Decimal) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderValue.Observe(total.InexactFloat64())
}

func (m *ShopMetrics) IncOrderFailure(reason string) {
	if m == nil || m.orderFailures == nil {
		return
	}
	m.orderFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *ShopMetrics) IncMessage(outcome string) {
	if m == nil || m.messages == nil {
		return
	}
	m.messages.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
