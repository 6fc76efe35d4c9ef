package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumelink_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resumelink_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumelink_uploads_total",
			Help: "Resume uploads by outcome",
		},
		[]string{"outcome"},
	)

	shortIDCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resumelink_short_id_collisions_total",
			Help: "Short id collisions that triggered a retry",
		},
	)

	resolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumelink_resolves_total",
			Help: "Short link resolutions by outcome",
		},
		[]string{"outcome"},
	)

	trackingJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumelink_tracking_jobs_total",
			Help: "Tracking jobs by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	trackingJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resumelink_tracking_job_duration_seconds",
			Help:    "Tracking job duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)

	trackingQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resumelink_tracking_queue_depth",
			Help: "Tracking jobs waiting in the local queue",
		},
	)

	workerMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumelink_worker_messages_total",
			Help: "Queue messages handled by the worker by outcome",
		},
		[]string{"outcome"},
	)
)

// Tracking job outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncUpload counts an upload attempt by outcome (created, rejected, failed).
func IncUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

// IncShortIDCollision counts a short id collision.
func IncShortIDCollision() {
	shortIDCollisionsTotal.Inc()
}

// IncResolve counts a resolution by outcome (found, not_found, error).
func IncResolve(outcome string) {
	resolvesTotal.WithLabelValues(outcome).Inc()
}

// IncTrackingJob counts a tracking job by kind and outcome.
func IncTrackingJob(kind, outcome string) {
	trackingJobsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveTrackingJob records a tracking job duration.
func ObserveTrackingJob(kind string, d time.Duration) {
	trackingJobDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// SetTrackingQueueDepth reports the local queue length.
func SetTrackingQueueDepth(n int) {
	trackingQueueDepth.Set(float64(n))
}

// IncWorkerMessage counts a worker message by outcome.
func IncWorkerMessage(outcome string) {
	workerMessagesTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
