// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Business metrics
var (
	// ArticleOperationsTotal counts successful article writes by operation (create, update, delete).
	ArticleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_article_operations_total",
			Help: "Total number of article writes",
		},
		[]string{"operation"},
	)

	// AuthEventsTotal counts register/login/logout attempts by result.
	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_auth_events_total",
			Help: "Total number of authentication events",
		},
		[]string{"event", "result"},
	)

	// MailJobsTotal counts welcome mail jobs by result (queued, sent, failed, dropped).
	MailJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_mail_jobs_total",
			Help: "Total number of mail jobs handled",
		},
		[]string{"result"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_store_errors_total",
			Help: "Total number of backing store failures",
		},
		[]string{"store"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	s := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, s).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, s).Observe(duration.Seconds())
}

func RecordArticleOperation(op string) {
	ArticleOperationsTotal.WithLabelValues(op).Inc()
}

// RecordAuthEvent records event with result "success" or "failure".
func RecordAuthEvent(event string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	AuthEventsTotal.WithLabelValues(event, result).Inc()
}

func RecordMailJob(result string) {
	MailJobsTotal.WithLabelValues(result).Inc()
}

func RecordStoreError(store string) {
	StoreErrorsTotal.WithLabelValues(store).Inc()
}
