// Package metrics exposes Prometheus collectors for the dashboard server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/himanishpuri/SongScope/pkg/models"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songscope_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songscope_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "songscope_api_active_requests",
			Help: "Number of API requests in flight",
		},
	)

	// RecommendationsTotal counts requests by outcome: shown, empty,
	// no_song or error.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songscope_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	ModelLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "songscope_model_latency_seconds",
			Help:    "Time spent in recommendation requests, model call included",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	LoadedRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "songscope_loaded_rows",
			Help: "Rows held in memory per table",
		},
		[]string{"table"},
	)
)

const (
	OutcomeNoSong = "no_song"
	OutcomeError  = "error"
)

func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records one request. outcome is a models.Outcome or
// one of OutcomeNoSong and OutcomeError.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	ModelLatency.Observe(duration.Seconds())
}

// RecordResult derives the outcome label from a requester result.
func RecordResult(res models.RecommendationResult, noSong bool, err error, duration time.Duration) {
	switch {
	case noSong:
		RecordRecommendation(OutcomeNoSong, duration)
	case err != nil:
		RecordRecommendation(OutcomeError, duration)
	default:
		RecordRecommendation(string(res.Outcome), duration)
	}
}

func SetLoadedRows(interactions, songs int) {
	LoadedRows.WithLabelValues("interactions").Set(float64(interactions))
	LoadedRows.WithLabelValues("songs").Set(float64(songs))
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// Middleware records request count and latency, labelled with the chi route
// pattern rather than the raw path so ids do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		TrackActiveRequest(true)
		defer TrackActiveRequest(false)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordAPIRequest(r.Method, routePattern(r), strconv.Itoa(status), time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
