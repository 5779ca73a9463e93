package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart, checkout, catalog and analytics activity.
// A nil *Storefront is valid and records nothing.
type Storefront struct {
	analyticsEvents *prometheus.CounterVec
	sinkFailures    *prometheus.CounterVec
	eventsDropped   *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	orders          *prometheus.CounterVec
	catalogFetch    *prometheus.HistogramVec
	httpRequests    *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	m := &Storefront{
		analyticsEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Analytics events dispatched, by event name.",
		}, []string{"event"}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_sink_failures_total",
			Help: "Analytics sink deliveries that failed and were dropped.",
		}, []string{"sink"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_events_dropped_total",
			Help: "Analytics events dropped before delivery, by event name.",
		}, []string{"event"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart mutations persisted, by operation.",
		}, []string{"op"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_orders_total",
			Help: "Order placement attempts, by outcome.",
		}, []string{"outcome"}),
		catalogFetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_fetch_duration_seconds",
			Help:    "Duration of product catalog fetches.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		httpRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.analyticsEvents, m.sinkFailures, m.eventsDropped, m.cartMutations, m.orders, m.catalogFetch, m.httpRequests)
	return m
}

func (m *Storefront) IncAnalyticsEvent(event string) {
	if m == nil || m.analyticsEvents == nil {
		return
	}
	m.analyticsEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *Storefront) IncSinkFailure(sink string) {
	if m == nil || m.sinkFailures == nil {
		return
	}
	m.sinkFailures.WithLabelValues(normalizeLabel(sink)).Inc()
}

func (m *Storefront) IncAnalyticsDropped(event string) {
	if m == nil || m.eventsDropped == nil {
		return
	}
	m.eventsDropped.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *Storefront) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *Storefront) IncOrder(outcome string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveCatalogFetch records a catalog fetch; outcome is "ok" or "error".
func (m *Storefront) ObserveCatalogFetch(duration time.Duration, err error) {
	if m == nil || m.catalogFetch == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.catalogFetch.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *Storefront) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	m.httpRequests.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
