package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	authRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of unauthorized requests",
		},
		[]string{"reason"},
	)
	intakeLoggedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_logged_total",
			Help: "Number of intake events logged",
		},
	)
	intakeLoggedMl = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_logged_ml_total",
			Help: "Milliliters of water logged",
		},
	)
	goalsReachedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "daily_goals_reached_total",
			Help: "Number of times a user crossed their daily goal",
		},
	)
	achievementsUnlockedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievements unlocked by type",
		},
		[]string{"type"},
	)
)

// InitPrometheus registers the metrics. Call this from main.go
func InitPrometheus() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		authRejections,
		intakeLoggedTotal,
		intakeLoggedMl,
		goalsReachedTotal,
		achievementsUnlockedTotal,
	)
}

func RecordIntake(amountMl int, goalReached bool) {
	intakeLoggedTotal.Inc()
	intakeLoggedMl.Add(float64(amountMl))
	if goalReached {
		goalsReachedTotal.Inc()
	}
}

func RecordAchievement(achievementType string) {
	achievementsUnlockedTotal.WithLabelValues(achievementType).Inc()
}

// MonitorMiddleware wraps the router to track all request stats
func MonitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Initialize with 200 OK in case WriteHeader isn't called explicitly
		ww := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		path := routeTemplate(r)

		httpRequestsTotal.WithLabelValues(path, r.Method, http.StatusText(ww.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method).Observe(duration)

		if ww.statusCode == http.StatusUnauthorized {
			authRejections.WithLabelValues("401_unauthorized").Inc()
		} else if ww.statusCode == http.StatusForbidden {
			authRejections.WithLabelValues("403_forbidden").Inc()
		}
	})
}

// routeTemplate keeps label cardinality bounded by using the mux template when known.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

// BasicAuthMiddleware protects /metrics. Empty credentials lock the endpoint.
func BasicAuthMiddleware(metricsUser, metricsPass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()

			if !ok || metricsUser == "" ||
				subtle.ConstantTimeCompare([]byte(user), []byte(metricsUser)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(metricsPass)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
