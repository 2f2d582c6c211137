package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	assignmentAttempts    *prometheus.CounterVec
	enrollmentTransitions *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		assignmentAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assignment_attempts_total",
			Help: "Graded assignment submissions by outcome.",
		}, []string{"outcome"})

		enrollmentTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollments_total",
			Help: "Enrollment changes by action.",
		}, []string{"action"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, assignmentAttempts, enrollmentTransitions)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// AssignmentAttempts exposes the grading outcome counter.
func AssignmentAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return assignmentAttempts
}

// Enrollments exposes the enrollment change counter.
func Enrollments() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentTransitions
}
