// Package observability carries the HTTP request metrics and the access
// log middleware.
package observability

import (
	"strconv"
	"strings"
	"time"

	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics instruments the API surface: request counts and latency by
// route and status.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(cfg config.Config) *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg config.Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "offerdesk"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "offerdesk_http_requests_total",
		Help:        "HTTP requests by method, route and status.",
		ConstLabels: constLabels,
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "offerdesk_http_request_duration_seconds",
		Help:        "HTTP request latency by method and route.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"method", "route"})

	registerer.MustRegister(requests, duration)

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// Observe records one completed request. Unmatched routes collapse into a
// single label value to keep cardinality bounded.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OfferMetrics counts offer status changes, labelled by the status entered.
type OfferMetrics struct {
	transitions *prometheus.CounterVec
}

func NewOfferMetrics(cfg config.Config) *OfferMetrics {
	return newOfferMetrics(prometheus.DefaultRegisterer, cfg)
}

func newOfferMetrics(registerer prometheus.Registerer, cfg config.Config) *OfferMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "offerdesk"
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "offerdesk_offer_status_transitions_total",
		Help:        "Offer status transitions by the status entered.",
		ConstLabels: prometheus.Labels{"service": serviceName},
	}, []string{"status"})

	registerer.MustRegister(transitions)

	return &OfferMetrics{transitions: transitions}
}

// Transition records entering one status. Batch sweeps pass the number of
// offers flipped.
func (m *OfferMetrics) Transition(status string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.transitions.WithLabelValues(status).Add(float64(count))
}
