// Package recommend turns a song selection into a model request and joins
// the returned song ids back to the catalog.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope/model"
	"github.com/himanishpuri/SongScope/pkg/songscope/selection"
)

// ErrNoSongSelected is returned when a request is made without a song that
// the selected user has played. It is an informational outcome.
var ErrNoSongSelected = errors.New("no song selected")

// SongSelection is the song chosen within a user selection together with
// the interaction rows that played it.
type SongSelection struct {
	UserID string
	SongID string
	Rows   []models.InteractionRow
}

// NewSongSelection narrows userRows to songID.
func NewSongSelection(userID string, userRows []models.InteractionRow, songID string) SongSelection {
	return SongSelection{
		UserID: userID,
		SongID: songID,
		Rows:   selection.SelectSong(userRows, songID),
	}
}

// Request asks rec for songs related to sel and joins them to catalog.
// An empty model answer yields OutcomeEmpty, not an error.
func Request(ctx context.Context, rec model.Recommender, catalog selection.SongLookup, sel SongSelection) (models.RecommendationResult, error) {
	if sel.SongID == "" || len(sel.Rows) == 0 {
		return models.RecommendationResult{}, ErrNoSongSelected
	}

	pred, err := rec.Recommend(ctx, models.NewRecordBatch(sel.Rows))
	if err != nil {
		return models.RecommendationResult{}, fmt.Errorf("requesting recommendations: %w", err)
	}

	result := models.RecommendationResult{
		Outcome: models.OutcomeEmpty,
		SongID:  sel.SongID,
		Songs:   []models.RecommendedSong{},
	}
	if len(pred.Titles) == 0 || len(pred.Titles[0]) == 0 {
		return result, nil
	}

	titles := pred.Titles[0]
	var scores []float32
	if len(pred.Scores) > 0 {
		scores = pred.Scores[0]
	}
	result.Returned = len(titles)

	rows, positions := selection.CatalogByIDs(catalog, titles)
	for i, song := range rows {
		rs := models.RecommendedSong{Rank: i + 1, Song: song}
		if p := positions[i]; p < len(scores) {
			rs.Score = scores[p]
		}
		result.Songs = append(result.Songs, rs)
	}
	if len(result.Songs) > 0 {
		result.Outcome = models.OutcomeShown
	}
	return result, nil
}
