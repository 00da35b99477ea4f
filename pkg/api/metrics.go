package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "huddle_http_requests_total",
		Help: "HTTP requests served, by method and status.",
	}, []string{"method", "status"})
	requestSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "huddle_http_request_seconds",
		Help:    "Request handling latency.",
		Buckets: prometheus.DefBuckets,
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		requestSeconds.Observe(time.Since(start).Seconds())
	})
}
