package models

// InteractionRow is one historical play event linking a user to a song.
type InteractionRow struct {
	UserID           string `json:"user_id"`
	SongID           string `json:"song_id"`
	SourceSystemTab  string `json:"source_system_tab"`
	SourceType       string `json:"source_type"`
	SourceScreenName string `json:"source_screen_name"`
	City             string `json:"city"`
	RegisteredVia    int32  `json:"registered_via"`
	Gender           string `json:"gender"`
	Target           int32  `json:"target"`
}

// SongRow is one catalog entry, keyed by SongID.
type SongRow struct {
	SongID     string  `json:"song_id"`
	Name       string  `json:"name"`
	ArtistName string  `json:"artist_name"`
	SongLength float64 `json:"song_length"` // milliseconds
	HasLength  bool    `json:"has_length"`  // false when the source cell was empty
	Language   string  `json:"language"`
	GenreIDs   string  `json:"genre_ids"` // raw, may be '|' delimited
	Composer   string  `json:"composer,omitempty"`
	Lyricist   string  `json:"lyricist,omitempty"`
}

// PreferenceSummary describes what a user tends to listen to.
// AvgSongLength is nil when no played song has a known length.
type PreferenceSummary struct {
	Plays         int      `json:"plays"`
	TopArtists    []string `json:"top_artists"`
	TopGenres     []string `json:"top_genres"`
	TopLanguages  []string `json:"top_languages"`
	AvgSongLength *float64 `json:"avg_song_length"`
}

// HasData reports whether the summary was computed over at least one row.
func (p PreferenceSummary) HasData() bool {
	return p.Plays > 0
}

// SongChoice is one entry of the song picker for a selected user.
type SongChoice struct {
	SongID string `json:"song_id"`
	Name   string `json:"name"`
}

// Outcome is the terminal state of a recommendation request.
type Outcome string

const (
	OutcomeShown Outcome = "shown"
	OutcomeEmpty Outcome = "empty"
)

// RecommendedSong is a catalog row returned by the model, with its rank
// (1-based, model order) and score.
type RecommendedSong struct {
	Rank  int     `json:"rank"`
	Score float32 `json:"score"`
	Song  SongRow `json:"song"`
}

// RecommendationResult is the joined model output for one song selection.
type RecommendationResult struct {
	Outcome  Outcome           `json:"outcome"`
	SongID   string            `json:"song_id"`
	Songs    []RecommendedSong `json:"songs"`
	Returned int               `json:"returned"` // titles returned by the model before the catalog join
}
