// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PageRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_page_requests_total",
			Help: "Total number of page requests served",
		},
		[]string{"page", "status"},
	)

	PageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_page_duration_seconds",
			Help:    "Duration of page handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"page"},
	)

	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_api_calls_total",
			Help: "Total number of backend API calls by outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_api_call_duration_seconds",
			Help:    "Duration of backend API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_sessions_active",
			Help: "Logins minus logouts and re-logins since process start; sessions expiring in Redis are not subtracted",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_notifications_total",
			Help: "Notifications sent by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)
