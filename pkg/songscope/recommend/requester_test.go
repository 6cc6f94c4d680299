package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/himanishpuri/SongScope/pkg/models"
)

type stubRecommender struct {
	pred    models.Prediction
	err     error
	batches []models.RecordBatch
}

func (s *stubRecommender) Recommend(_ context.Context, batch models.RecordBatch) (models.Prediction, error) {
	s.batches = append(s.batches, batch)
	return s.pred, s.err
}

type mapLookup map[string]models.SongRow

func (m mapLookup) Song(id string) (models.SongRow, bool) {
	s, ok := m[id]
	return s, ok
}

var catalog = mapLookup{
	"S1": {SongID: "S1", Name: "One"},
	"S2": {SongID: "S2", Name: "Two"},
	"S3": {SongID: "S3", Name: "Three"},
}

func userRows() []models.InteractionRow {
	return []models.InteractionRow{
		{UserID: "U1", SongID: "S1", City: "13", RegisteredVia: 9, Target: 1, Gender: "female"},
		{UserID: "U1", SongID: "S2"},
	}
}

func TestRequestShown(t *testing.T) {
	stub := &stubRecommender{pred: models.Prediction{
		Scores: [][]float32{{0.9, 0.8, 0.7, 0.6}},
		Titles: [][]string{{"S3", "S9", "S2", "S3"}},
	}}
	sel := NewSongSelection("U1", userRows(), "S1")

	res, err := Request(context.Background(), stub, catalog, sel)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if res.Outcome != models.OutcomeShown {
		t.Fatalf("expected shown, got %s", res.Outcome)
	}
	if len(res.Songs) != 2 {
		t.Fatalf("expected 2 joined songs, got %d", len(res.Songs))
	}
	if res.Songs[0].Song.SongID != "S3" || res.Songs[1].Song.SongID != "S2" {
		t.Errorf("expected model order [S3 S2], got %+v", res.Songs)
	}
	if res.Songs[0].Rank != 1 || res.Songs[1].Rank != 2 {
		t.Errorf("unexpected ranks %+v", res.Songs)
	}
	if res.Songs[1].Score != 0.7 {
		t.Errorf("expected S2 to keep its model score 0.7, got %v", res.Songs[1].Score)
	}
	if res.Returned != 4 {
		t.Errorf("expected 4 returned titles, got %d", res.Returned)
	}

	if len(stub.batches) != 1 {
		t.Fatalf("expected one model call, got %d", len(stub.batches))
	}
	b := stub.batches[0]
	if b.Len() != 1 || b.SongID[0] != "S1" || b.City[0] != "13" || b.RegisteredVia[0] != 9 {
		t.Errorf("unexpected batch %+v", b)
	}
}

func TestRequestEmptyTitles(t *testing.T) {
	for name, pred := range map[string]models.Prediction{
		"no rows":        {},
		"empty first":    {Titles: [][]string{{}}},
		"nothing joined": {Titles: [][]string{{"S8", "S9"}}},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Request(context.Background(), &stubRecommender{pred: pred}, catalog, NewSongSelection("U1", userRows(), "S1"))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Outcome != models.OutcomeEmpty {
				t.Errorf("expected empty outcome, got %s", res.Outcome)
			}
			if len(res.Songs) != 0 {
				t.Errorf("expected no songs, got %v", res.Songs)
			}
		})
	}
}

func TestRequestNoSongSelected(t *testing.T) {
	stub := &stubRecommender{}
	for _, songID := range []string{"", "S9"} {
		_, err := Request(context.Background(), stub, catalog, NewSongSelection("U1", userRows(), songID))
		if !errors.Is(err, ErrNoSongSelected) {
			t.Errorf("song %q: expected ErrNoSongSelected, got %v", songID, err)
		}
	}
	if len(stub.batches) != 0 {
		t.Error("model must not be called without a selected song")
	}
}

func TestRequestModelError(t *testing.T) {
	boom := errors.New("model unavailable")
	_, err := Request(context.Background(), &stubRecommender{err: boom}, catalog, NewSongSelection("U1", userRows(), "S1"))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}
