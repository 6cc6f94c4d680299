package songscope

import (
	"context"
	"errors"

	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope/recommend"
)

// Stage is how far down the dashboard a given interaction got.
type Stage string

const (
	StageNoUserSelected          Stage = "no_user_selected"
	StageUserSelected            Stage = "user_selected"
	StageSongSelected            Stage = "song_selected"
	StageRecommendationRequested Stage = "recommendation_requested"
	StageRecommendationsShown    Stage = "recommendations_shown"
	StageRecommendationsEmpty    Stage = "recommendations_empty"
)

const (
	MsgNoUserSelected    = "no user selected"
	MsgNoSongSelected    = "no song selected"
	MsgNoRecommendations = "no recommendations found"
)

// Interaction is the full widget state of one dashboard render. UserIndex
// takes precedence over UserID. Generate is the button press.
type Interaction struct {
	UserIndex *int   `json:"user_index,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	SongID    string `json:"song_id,omitempty"`
	Generate  bool   `json:"generate,omitempty"`
}

// View is what the dashboard renders for one Interaction.
type View struct {
	Stage           Stage                        `json:"stage"`
	Generation      string                       `json:"generation"`
	Users           int                          `json:"users"`
	User            *UserSelection               `json:"user,omitempty"`
	Song            *SongDetail                  `json:"song,omitempty"`
	Recommendations *models.RecommendationResult `json:"recommendations,omitempty"`
	Messages        []string                     `json:"messages,omitempty"`
}

// Dashboard re-runs the pipeline top to bottom for in. Missing selections
// stop the pipeline with an informational message; only bad references
// (index out of range, unknown user) and model failures are errors.
//
// A SongID the selected user never played is treated as no selection, the
// same way the song picker resets when the user changes, and the view says
// so with MsgNoSongSelected.
func (s *songService) Dashboard(ctx context.Context, in Interaction) (View, error) {
	view := View{
		Stage:      StageNoUserSelected,
		Generation: s.tables.Generation,
		Users:      len(s.users),
	}

	userID := in.UserID
	if in.UserIndex != nil {
		id, err := s.UserByIndex(*in.UserIndex)
		if err != nil {
			return view, err
		}
		userID = id
	}
	if userID == "" {
		view.Messages = append(view.Messages, MsgNoUserSelected)
		return view, nil
	}

	user, err := s.SelectUser(userID)
	if err != nil {
		return view, err
	}
	view.Stage = StageUserSelected
	view.User = &user

	songID := in.SongID
	if songID != "" {
		detail, err := s.SongDetail(userID, songID)
		switch {
		case errors.Is(err, ErrSongNotPlayed):
			songID = ""
			view.Messages = append(view.Messages, MsgNoSongSelected)
		case err != nil:
			return view, err
		default:
			view.Stage = StageSongSelected
			view.Song = &detail
		}
	}

	if !in.Generate {
		return view, nil
	}
	if songID == "" {
		if in.SongID == "" {
			view.Messages = append(view.Messages, MsgNoSongSelected)
		}
		return view, nil
	}

	view.Stage = StageRecommendationRequested
	res, err := s.Recommend(ctx, userID, songID)
	if errors.Is(err, recommend.ErrNoSongSelected) {
		view.Messages = append(view.Messages, MsgNoSongSelected)
		return view, nil
	}
	if err != nil {
		return view, err
	}

	view.Recommendations = &res
	if res.Outcome == models.OutcomeShown {
		view.Stage = StageRecommendationsShown
	} else {
		view.Stage = StageRecommendationsEmpty
		view.Messages = append(view.Messages, MsgNoRecommendations)
	}
	return view, nil
}
