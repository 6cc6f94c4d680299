package songscope

import (
	"context"
	"errors"
	"testing"

	"github.com/himanishpuri/SongScope/pkg/models"
)

func intPtr(i int) *int { return &i }

func TestDashboardStages(t *testing.T) {
	shown := models.Prediction{Titles: [][]string{{"S2", "S3"}}, Scores: [][]float32{{0.6, 0.4}}}

	tests := []struct {
		name      string
		pred      models.Prediction
		in        Interaction
		wantStage Stage
		wantMsg   string
		wantCalls int
	}{
		{
			name:      "nothing selected",
			in:        Interaction{},
			wantStage: StageNoUserSelected,
			wantMsg:   MsgNoUserSelected,
		},
		{
			name:      "user by index",
			in:        Interaction{UserIndex: intPtr(0)},
			wantStage: StageUserSelected,
		},
		{
			name:      "generate without song",
			in:        Interaction{UserIndex: intPtr(0), Generate: true},
			wantStage: StageUserSelected,
			wantMsg:   MsgNoSongSelected,
		},
		{
			name:      "song selected",
			in:        Interaction{UserID: "U1", SongID: "S1"},
			wantStage: StageSongSelected,
		},
		{
			name:      "unplayed song is reported",
			in:        Interaction{UserID: "U2", SongID: "S2"},
			wantStage: StageUserSelected,
			wantMsg:   MsgNoSongSelected,
		},
		{
			name:      "song from another user resets",
			in:        Interaction{UserID: "U2", SongID: "S2", Generate: true},
			wantStage: StageUserSelected,
			wantMsg:   MsgNoSongSelected,
		},
		{
			name:      "recommendations shown",
			pred:      shown,
			in:        Interaction{UserIndex: intPtr(0), SongID: "S1", Generate: true},
			wantStage: StageRecommendationsShown,
			wantCalls: 1,
		},
		{
			name:      "model returns nothing",
			pred:      models.Prediction{Titles: [][]string{{}}},
			in:        Interaction{UserID: "U1", SongID: "S1", Generate: true},
			wantStage: StageRecommendationsEmpty,
			wantMsg:   MsgNoRecommendations,
			wantCalls: 1,
		},
		{
			name:      "uncatalogued titles",
			pred:      models.Prediction{Titles: [][]string{{"S404"}}},
			in:        Interaction{UserID: "U1", SongID: "S9", Generate: true},
			wantStage: StageRecommendationsEmpty,
			wantMsg:   MsgNoRecommendations,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stubRecommender{pred: tt.pred}
			svc := newTestService(t, rec)

			view, err := svc.Dashboard(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Dashboard failed: %v", err)
			}
			if view.Stage != tt.wantStage {
				t.Errorf("stage = %s, want %s", view.Stage, tt.wantStage)
			}
			if tt.wantMsg == "" && len(view.Messages) != 0 {
				t.Errorf("unexpected messages %v", view.Messages)
			}
			if tt.wantMsg != "" && (len(view.Messages) != 1 || view.Messages[0] != tt.wantMsg) {
				t.Errorf("messages = %v, want [%s]", view.Messages, tt.wantMsg)
			}
			if rec.calls != tt.wantCalls {
				t.Errorf("model called %d times, want %d", rec.calls, tt.wantCalls)
			}
			if view.Users != 2 {
				t.Errorf("users = %d, want 2", view.Users)
			}
		})
	}
}

func TestDashboardUncataloguedSongDetail(t *testing.T) {
	svc := newTestService(t, &stubRecommender{})

	view, err := svc.Dashboard(context.Background(), Interaction{UserID: "U1", SongID: "S9"})
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if view.Song == nil {
		t.Fatal("expected song detail")
	}
	if len(view.Song.Info) != 0 {
		t.Errorf("expected empty catalog info, got %+v", view.Song.Info)
	}
	if len(view.Song.UserRows) != 1 {
		t.Errorf("expected 1 user row, got %d", len(view.Song.UserRows))
	}
}

func TestDashboardShownResult(t *testing.T) {
	rec := &stubRecommender{pred: models.Prediction{
		Titles: [][]string{{"S3", "S2", "S3"}},
		Scores: [][]float32{{0.9, 0.5, 0.1}},
	}}
	svc := newTestService(t, rec)

	view, err := svc.Dashboard(context.Background(), Interaction{UserID: "U1", SongID: "S2", Generate: true})
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	res := view.Recommendations
	if res == nil || len(res.Songs) != 2 {
		t.Fatalf("expected 2 deduplicated songs, got %+v", res)
	}
	if res.Songs[0].Song.SongID != "S3" || res.Songs[0].Rank != 1 {
		t.Errorf("unexpected first song %+v", res.Songs[0])
	}
	if view.User == nil || view.Song == nil {
		t.Error("expected upstream sections to be populated")
	}
}

func TestDashboardBadReferences(t *testing.T) {
	svc := newTestService(t, &stubRecommender{})

	if _, err := svc.Dashboard(context.Background(), Interaction{UserIndex: intPtr(5)}); !errors.Is(err, ErrUserIndexRange) {
		t.Errorf("expected ErrUserIndexRange, got %v", err)
	}
	if _, err := svc.Dashboard(context.Background(), Interaction{UserID: "ghost"}); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestDashboardModelFailure(t *testing.T) {
	boom := errors.New("serving down")
	svc := newTestService(t, &stubRecommender{err: boom})

	view, err := svc.Dashboard(context.Background(), Interaction{UserID: "U1", SongID: "S1", Generate: true})
	if !errors.Is(err, boom) {
		t.Fatalf("expected model error, got %v", err)
	}
	if view.Stage != StageRecommendationRequested {
		t.Errorf("stage = %s, want %s", view.Stage, StageRecommendationRequested)
	}
}
