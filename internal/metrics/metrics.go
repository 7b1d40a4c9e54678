package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	GatewayRequests *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec

	SessionsOpened  *prometheus.CounterVec
	SessionsEvicted *prometheus.CounterVec
	CartsSaved      *prometheus.CounterVec
	OwnersSaved     *prometheus.CounterVec
	MessagesBuilt   *prometheus.CounterVec
	ProductsChanged *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	gatewayRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_gateway_requests_total",
		Help: "Remote data gateway calls by operation and outcome.",
	}, []string{"op", "outcome"})
	gatewayLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_gateway_request_seconds",
		Help:    "Remote data gateway call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	sessionsOpened := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_sessions_opened_total",
		Help: "Editing sessions opened by kind.",
	}, []string{"kind"})
	sessionsEvicted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_sessions_evicted_total",
		Help: "Idle editing sessions evicted by kind.",
	}, []string{"kind"})
	cartsSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_carts_saved_total",
		Help: "Cart saves by mode (create or update).",
	}, []string{"mode"})
	ownersSaved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_owners_saved_total",
		Help: "Owner record saves by mode (create or update).",
	}, []string{"mode"})
	messagesBuilt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_order_messages_total",
		Help: "Order messages composed by order status.",
	}, []string{"status"})
	productsChanged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_products_changed_total",
		Help: "Product catalog writes by operation.",
	}, []string{"op"})

	r.MustRegister(gatewayRequests, gatewayLatency, sessionsOpened, sessionsEvicted, cartsSaved, ownersSaved, messagesBuilt, productsChanged)
	return &Registry{
		reg:             r,
		GatewayRequests: gatewayRequests,
		GatewayLatency:  gatewayLatency,
		SessionsOpened:  sessionsOpened,
		SessionsEvicted: sessionsEvicted,
		CartsSaved:      cartsSaved,
		OwnersSaved:     ownersSaved,
		MessagesBuilt:   messagesBuilt,
		ProductsChanged: productsChanged,
	}
}

// ObserveRequest records one gateway call.
func (r *Registry) ObserveRequest(op, outcome string, elapsed time.Duration) {
	r.GatewayRequests.WithLabelValues(op, outcome).Inc()
	r.GatewayLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (r *Registry) SessionEvicted(kind string) {
	r.SessionsEvicted.WithLabelValues(kind).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
