package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rems_frontend", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rems_frontend", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// outcome: ok | transport | rejected | auth_expired | decode
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rems_frontend", Name: "api_requests_total", Help: "Backend API calls by service and outcome."},
		[]string{"service", "outcome"},
	)
	SessionTeardowns = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "rems_frontend", Name: "session_teardowns_total", Help: "Sessions cleared because the backend rejected their credentials."},
	)
	UploadRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rems_frontend", Name: "upload_rejected_total", Help: "Images rejected before transmission, by reason."},
		[]string{"reason"},
	)
	GuardDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rems_frontend", Name: "guard_denied_total", Help: "Page loads refused by an authorization guard."},
		[]string{"guard"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(APIRequests)
	reg.MustRegister(SessionTeardowns)
	reg.MustRegister(UploadRejected)
	reg.MustRegister(GuardDenied)
}
