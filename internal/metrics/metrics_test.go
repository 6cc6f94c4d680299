package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/himanishpuri/SongScope/pkg/models"
)

func TestRecordResult(t *testing.T) {
	tests := []struct {
		name    string
		res     models.RecommendationResult
		noSong  bool
		err     error
		outcome string
	}{
		{"shown", models.RecommendationResult{Outcome: models.OutcomeShown}, false, nil, "shown"},
		{"empty", models.RecommendationResult{Outcome: models.OutcomeEmpty}, false, nil, "empty"},
		{"no song", models.RecommendationResult{}, true, nil, OutcomeNoSong},
		{"error", models.RecommendationResult{}, false, errors.New("timeout"), OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(tt.outcome))
			RecordResult(tt.res, tt.noSong, tt.err, 5*time.Millisecond)
			after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues(tt.outcome))
			if after != before+1 {
				t.Errorf("outcome %q: counter went %v -> %v", tt.outcome, before, after)
			}
		})
	}
}

func TestSetLoadedRows(t *testing.T) {
	SetLoadedRows(12, 3)
	if got := testutil.ToFloat64(LoadedRows.WithLabelValues("interactions")); got != 12 {
		t.Errorf("interactions gauge = %v, want 12", got)
	}
	if got := testutil.ToFloat64(LoadedRows.WithLabelValues("songs")); got != 3 {
		t.Errorf("songs gauge = %v, want 3", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/users/{index}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/users/{index}", "418")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/users/1", "/api/users/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if after := testutil.ToFloat64(counter); after != before+2 {
		t.Errorf("route counter went %v -> %v, want +2", before, after)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != 0 {
		t.Errorf("active requests = %v after completion", got)
	}
}
