// metrics - Prometheus-метрики movie-api (HTTP, аутентификация, хранилище).
// Отдаются через /metrics (promhttp.Handler в cmd/movie-api).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieapi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movieapi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movieapi_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieapi_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	// Аутентификация: result = ok|missing|invalid|expired.
	AuthTokenChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movieapi_auth_token_checks_total",
			Help: "Bearer token verification results",
		},
		[]string{"result"},
	)

	// CORS: запросы с Origin вне белого списка.
	CORSRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movieapi_cors_rejected_total",
			Help: "Requests rejected by the CORS origin allow-list",
		},
	)
)

// RecordAPIRequest учитывает завершённый HTTP-запрос.
// route - шаблон chi (/users/{Username}), а не фактический путь.
func RecordAPIRequest(method, route string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackActiveRequest увеличивает/уменьшает число запросов в работе.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}

	APIActiveRequests.Dec()
}

// RecordRateLimitHit учитывает отказ по лимиту.
func RecordRateLimitHit(route string) {
	APIRateLimitHits.WithLabelValues(route).Inc()
}

// RecordTokenCheck учитывает результат проверки Bearer-токена.
func RecordTokenCheck(result string) {
	AuthTokenChecks.WithLabelValues(result).Inc()
}

// RecordCORSRejected учитывает запрос с запрещённым Origin.
func RecordCORSRejected() {
	CORSRejected.Inc()
}
