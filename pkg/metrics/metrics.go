// Package metrics expone contadores Prometheus del servidor HTTP y del motor de inventario.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sweetshop"

// Resultados de compra para el label "result".
const (
	PurchaseOK           = "ok"
	PurchaseInsufficient = "insufficient_stock"
	PurchaseNotFound     = "not_found"
	PurchaseRejected     = "rejected"
	PurchaseError        = "error"
)

// Metrics agrupa los colectores de la aplicación sobre un registro propio.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latencyMS *prometheus.HistogramVec
	purchases *prometheus.CounterVec
	unitsSold prometheus.Counter
}

// New crea y registra los colectores. Cada instancia usa su propio registro (seguro en tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		latencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase attempts by result.",
		}, []string{"result"}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_sold_total",
			Help:      "Units sold across all sweets.",
		}),
	}
	reg.MustRegister(m.requests, m.latencyMS, m.purchases, m.unitsSold)
	return m
}

// ObserveRequest registra una petición HTTP terminada.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latencyMS.WithLabelValues(route).Observe(float64(elapsed.Microseconds()) / 1000)
}

// ObservePurchase registra el resultado de un intento de compra.
func (m *Metrics) ObservePurchase(result string, units int) {
	m.purchases.WithLabelValues(result).Inc()
	if result == PurchaseOK && units > 0 {
		m.unitsSold.Add(float64(units))
	}
}

// Handler devuelve el handler de exposición /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry expone el registro (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
