package songscope

import (
	"context"

	"github.com/himanishpuri/SongScope/pkg/models"
)

type Service interface {
	Users() []string
	UserByIndex(index int) (string, error)
	SelectUser(userID string) (UserSelection, error)
	SongDetail(userID, songID string) (SongDetail, error)
	Recommend(ctx context.Context, userID, songID string) (models.RecommendationResult, error)
	Dashboard(ctx context.Context, in Interaction) (View, error)
	Stats() Stats
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
