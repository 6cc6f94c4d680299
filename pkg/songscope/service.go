package songscope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/himanishpuri/SongScope/pkg/logger"
	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope/blob"
	"github.com/himanishpuri/SongScope/pkg/songscope/dataset"
	"github.com/himanishpuri/SongScope/pkg/songscope/model"
	"github.com/himanishpuri/SongScope/pkg/songscope/recommend"
	"github.com/himanishpuri/SongScope/pkg/songscope/selection"
	"github.com/himanishpuri/SongScope/pkg/songscope/summary"
)

// songService is the default implementation of the Service interface.
// Everything it holds is built once in NewService and only read afterwards,
// so a single instance is safe to share between requests.
type songService struct {
	tables    *dataset.Tables
	rec       model.Recommender
	log       Logger
	config    *Config
	source    string
	users     []string
	userIndex map[string]int
}

// NewService loads the datasets and the model. Any failure is returned and
// the caller is expected to abort startup.
func NewService(ctx context.Context, opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Opener == nil {
		cfg.Opener = blob.NewRouter(cfg.S3)
	}

	tables, source, err := loadTables(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Infof("Loaded %d interactions and %d songs from %s", len(tables.Interactions), len(tables.Catalog), source)

	rec := cfg.Recommender
	if rec == nil {
		var modelOpts []model.Option
		if cfg.ModelHTTPClient != nil {
			modelOpts = append(modelOpts, model.WithHTTPClient(cfg.ModelHTTPClient))
		}
		rec, err = model.Load(ctx, cfg.ModelDir, modelOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		cfg.Logger.Infof("Loaded model from %s", cfg.ModelDir)
	}

	users := selection.UserIDs(tables.Interactions)
	index := make(map[string]int, len(users))
	for i, u := range users {
		index[u] = i
	}

	return &songService{
		tables:    tables,
		rec:       rec,
		log:       cfg.Logger,
		config:    cfg,
		source:    source,
		users:     users,
		userIndex: index,
	}, nil
}

func loadTables(ctx context.Context, cfg *Config) (*dataset.Tables, string, error) {
	switch {
	case cfg.Tables != nil:
		return cfg.Tables, "memory", nil
	case cfg.SnapshotPath != "":
		t, source, err := loadSnapshot(cfg.SnapshotPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load snapshot: %w", err)
		}
		return t, source, nil
	default:
		t, err := dataset.Load(ctx, cfg.Opener, cfg.InteractionsPath, cfg.CatalogPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load datasets: %w", err)
		}
		return t, "csv:" + cfg.InteractionsPath + "," + cfg.CatalogPath, nil
	}
}

// Users returns the user ids in dropdown order.
func (s *songService) Users() []string {
	return s.users
}

func (s *songService) UserByIndex(index int) (string, error) {
	if index < 0 || index >= len(s.users) {
		return "", fmt.Errorf("%w: %d (have %d users)", ErrUserIndexRange, index, len(s.users))
	}
	return s.users[index], nil
}

// SelectUser filters the interaction log to userID and derives the played
// songs table, the preference summary and the song choices.
func (s *songService) SelectUser(userID string) (UserSelection, error) {
	idx, ok := s.userIndex[userID]
	if !ok {
		return UserSelection{}, fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}

	rows := selection.SelectUser(s.tables.Interactions, userID)
	played := selection.PlayedSongs(s.tables.Catalog, rows)
	return UserSelection{
		Index:       idx,
		UserID:      userID,
		Rows:        rows,
		PlayedSongs: played,
		Summary:     summary.Summarize(rows, s.tables),
		SongChoices: selection.SongChoices(played),
	}, nil
}

// SongDetail returns the catalog row for songID (possibly none) and the
// user's rows for it. The song must appear in the user's history.
func (s *songService) SongDetail(userID, songID string) (SongDetail, error) {
	if _, ok := s.userIndex[userID]; !ok {
		return SongDetail{}, fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}
	rows := selection.SelectSong(selection.SelectUser(s.tables.Interactions, userID), songID)
	if len(rows) == 0 {
		return SongDetail{}, fmt.Errorf("%w: %q", ErrSongNotPlayed, songID)
	}
	return SongDetail{
		UserID:   userID,
		SongID:   songID,
		Info:     selection.SongInfo(s.tables, songID),
		UserRows: rows,
	}, nil
}

// Recommend forwards the user's rows for songID to the model. An empty
// songID, or one the user never played, yields recommend.ErrNoSongSelected.
func (s *songService) Recommend(ctx context.Context, userID, songID string) (models.RecommendationResult, error) {
	rows := selection.SelectUser(s.tables.Interactions, userID)
	sel := recommend.NewSongSelection(userID, rows, songID)

	start := time.Now()
	res, err := recommend.Request(ctx, s.rec, s.tables, sel)
	switch {
	case errors.Is(err, recommend.ErrNoSongSelected):
		return res, err
	case err != nil:
		s.log.Errorf("Recommendation for user=%s song=%s failed: %v", userID, songID, err)
		return res, err
	}

	s.log.Debugf("Recommendation for song=%s: model returned %d titles, %d in catalog (%s) in %s",
		songID, res.Returned, len(res.Songs), res.Outcome, time.Since(start))
	return res, nil
}

func (s *songService) Stats() Stats {
	return Stats{
		Generation:   s.tables.Generation,
		Source:       s.source,
		ModelDir:     s.config.ModelDir,
		Users:        len(s.users),
		Interactions: len(s.tables.Interactions),
		Songs:        len(s.tables.Catalog),
	}
}

// Close releases the model if it holds resources.
func (s *songService) Close() error {
	if c, ok := s.rec.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
