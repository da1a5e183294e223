package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qreader"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Token metrics
	TokenValidateCalls *prometheus.CounterVec

	// Protection metrics
	RateLimited prometheus.Counter
	Panics      prometheus.Counter
}

// NewRegistry creates a registry with all QReader metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TokenValidateCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_validate_calls_total",
			Help:      "API token validations by result.",
		}, []string{"result"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_recovered_total",
			Help:      "Handler panics caught by the recover middleware.",
		}),
	}

	reg.MustRegister(r.RequestsTotal, r.RequestDuration, r.TokenValidateCalls, r.RateLimited, r.Panics)
	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registerer exposes the underlying registry for components that own their
// metrics, such as the Badger store.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// RecordRequest counts one served request.
func (r *Registry) RecordRequest(method, route, status string) {
	r.RequestsTotal.WithLabelValues(method, route, status).Inc()
}

// ObserveRequestDuration records request latency in seconds.
func (r *Registry) ObserveRequestDuration(method, route string, seconds float64) {
	r.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordTokenValidation counts a validation with the given result label.
func (r *Registry) RecordTokenValidation(result string) {
	r.TokenValidateCalls.WithLabelValues(result).Inc()
}

// ObserveValidation records an accepted or rejected token.
func (r *Registry) ObserveValidation(accepted bool) {
	if accepted {
		r.RecordTokenValidation("valid")
		return
	}
	r.RecordTokenValidation("invalid")
}

// IncRateLimited counts a rate-limited request.
func (r *Registry) IncRateLimited() {
	r.RateLimited.Inc()
}

// IncPanics counts a recovered panic.
func (r *Registry) IncPanics() {
	r.Panics.Inc()
}
