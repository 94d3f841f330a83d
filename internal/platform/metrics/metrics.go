// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hrperf"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})

	// AuthFailuresTotal labels: reason is one of missing_token, invalid_token,
	// unknown_identity, forbidden_role, invalid_credentials, mfa.
	AuthFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "failures_total",
		Help:      "Rejected authentication and authorization attempts.",
	}, []string{"reason"})

	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Successful logins.",
	})

	// RecordsCreatedTotal labels: kind is employee, review, goal or feedback.
	RecordsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "performance",
		Name:      "records_created_total",
		Help:      "Records created through the API by kind.",
	}, []string{"kind"})

	// JobsTotal labels: status is completed, failed or dropped.
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "total",
		Help:      "Background jobs by type and outcome.",
	}, []string{"type", "status"})
)

func ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func AuthFailure(reason string) {
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

func RecordCreated(kind string) {
	RecordsCreatedTotal.WithLabelValues(kind).Inc()
}

func JobFinished(jobType, status string) {
	JobsTotal.WithLabelValues(jobType, status).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
