package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TotalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savora_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "savora_http_request_duration_seconds",
			Help:    "Histogram of response duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savora_emails_total",
			Help: "Emails handed to the SMTP server, by kind and result",
		},
		[]string{"kind", "result"},
	)

	NotificationsShown = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savora_notifications_shown_total",
			Help: "In-app notifications shown, by category",
		},
		[]string{"category"},
	)

	PushesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "savora_push_total",
			Help: "Push messages sent through FCM, by channel and result",
		},
		[]string{"channel", "result"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "savora_active_sessions",
			Help: "Number of user sessions held in memory",
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(TotalRequests, RequestDuration, EmailsSent, NotificationsShown, PushesSent, ActiveSessions)
	})
}

// Result labels an outcome as "success" or "error"
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
