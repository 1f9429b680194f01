// Package metrics exposes Prometheus counters for credential and storage
// outcomes.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	Signups        *prometheus.CounterVec
	Logins         *prometheus.CounterVec
	StorageOps     *prometheus.CounterVec
	StorageLatency *prometheus.HistogramVec
	Requests       *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_signups_total",
			Help: "Signup attempts by result",
		}, []string{"result"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		StorageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_storage_operations_total",
			Help: "Blob store operations by operation and result",
		}, []string{"op", "result"}),
		StorageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophauth_storage_operation_duration_seconds",
			Help:    "Blob store operation latency including retries",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(collectors.NewGoCollector())
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m.registry.MustRegister(m.Signups, m.Logins, m.StorageOps, m.StorageLatency, m.Requests)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (m *Metrics) RecordSignup(err error) {
	m.Signups.WithLabelValues(Result(err)).Inc()
}

func (m *Metrics) RecordLogin(err error) {
	m.Logins.WithLabelValues(Result(err)).Inc()
}

// ObserveStorage implements blobstore.Observer.
func (m *Metrics) ObserveStorage(op string, elapsed time.Duration, err error) {
	m.StorageOps.WithLabelValues(op, Result(err)).Inc()
	m.StorageLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Result turns an error into a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrorInvalidInput):
		return "invalid_input"
	case errors.Is(err, common.ErrorUserAlreadyExists), errors.Is(err, common.ErrorAlreadyExists):
		return "already_exists"
	case errors.Is(err, common.ErrorInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorStorageUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
