package songscope

import (
	"errors"

	"github.com/himanishpuri/SongScope/pkg/models"
)

var (
	ErrUnknownUser    = errors.New("unknown user")
	ErrUserIndexRange = errors.New("user index out of range")
	ErrSongNotPlayed  = errors.New("song not played by user")
)

// UserSelection is everything the dashboard shows once a user is chosen.
type UserSelection struct {
	Index       int                      `json:"index"`
	UserID      string                   `json:"user_id"`
	Rows        []models.InteractionRow  `json:"-"`
	PlayedSongs []models.SongRow         `json:"played_songs"`
	Summary     models.PreferenceSummary `json:"summary"`
	SongChoices []models.SongChoice      `json:"song_choices"`
}

// SongDetail is a chosen song: its catalog row (empty when the song is not
// in the catalog) and the user's interaction rows for it.
type SongDetail struct {
	UserID   string                  `json:"user_id"`
	SongID   string                  `json:"song_id"`
	Info     []models.SongRow        `json:"info"`
	UserRows []models.InteractionRow `json:"user_rows"`
}

// Stats describes what the service loaded.
type Stats struct {
	Generation   string `json:"generation"`
	Source       string `json:"source"`
	ModelDir     string `json:"model_dir"`
	Users        int    `json:"users"`
	Interactions int    `json:"interactions"`
	Songs        int    `json:"songs"`
}
