// Package storage keeps a SQLite snapshot of the two loaded tables so the
// dashboard can start from one file instead of re-parsing large CSVs.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/utils"
)

const DefaultDBFile = "songscope.sqlite3"
const errDBClientNil = "db client is nil"

const batchSize = 500

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Song is a catalog row. Seq (1-based) preserves catalog order.
type Song struct {
	Seq        int    `gorm:"primaryKey;autoIncrement:false"`
	SongID     string `gorm:"index:idx_song_id;type:varchar(64)"`
	Name       string
	ArtistName string `gorm:"index:idx_artist"`
	SongLength float64
	HasLength  bool
	Language   string
	GenreIDs   string
	Composer   string
	Lyricist   string
}

// Interaction is one play event. Seq (1-based) preserves log order.
type Interaction struct {
	Seq              int    `gorm:"primaryKey;autoIncrement:false"`
	UserID           string `gorm:"index:idx_user;type:varchar(64)"`
	SongID           string `gorm:"index:idx_interaction_song;type:varchar(64)"`
	SourceSystemTab  string
	SourceType       string
	SourceScreenName string
	City             string
	RegisteredVia    int32
	Gender           string
	Target           int32
}

// Meta records when and from where the snapshot was written.
type Meta struct {
	ID              uint `gorm:"primaryKey"`
	InteractionsURI string
	CatalogURI      string
	CreatedAt       time.Time
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := utils.MakeDir(dir); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Song{}, &Interaction{}, &Meta{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

// OpenExisting opens a snapshot that must already exist on disk.
func OpenExisting(dbPath string) (*DBClient, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", dbPath, err)
	}
	return NewDBClientWithPath(dbPath)
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ReplaceTables overwrites the snapshot with the given tables in one transaction.
func (c *DBClient) ReplaceTables(interactions []models.InteractionRow, catalog []models.SongRow, meta Meta) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&Interaction{}, &Song{}, &Meta{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clearing snapshot: %w", err)
			}
		}

		songs := make([]Song, 0, len(catalog))
		for i, s := range catalog {
			songs = append(songs, Song{
				Seq:        i + 1,
				SongID:     s.SongID,
				Name:       s.Name,
				ArtistName: s.ArtistName,
				SongLength: s.SongLength,
				HasLength:  s.HasLength,
				Language:   s.Language,
				GenreIDs:   s.GenreIDs,
				Composer:   s.Composer,
				Lyricist:   s.Lyricist,
			})
		}
		if len(songs) > 0 {
			if err := tx.CreateInBatches(songs, batchSize).Error; err != nil {
				return fmt.Errorf("batch insert songs: %w", err)
			}
		}

		rows := make([]Interaction, 0, len(interactions))
		for i, r := range interactions {
			rows = append(rows, Interaction{
				Seq:              i + 1,
				UserID:           r.UserID,
				SongID:           r.SongID,
				SourceSystemTab:  r.SourceSystemTab,
				SourceType:       r.SourceType,
				SourceScreenName: r.SourceScreenName,
				City:             r.City,
				RegisteredVia:    r.RegisteredVia,
				Gender:           r.Gender,
				Target:           r.Target,
			})
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
				return fmt.Errorf("batch insert interactions: %w", err)
			}
		}

		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = time.Now()
		}
		meta.ID = 0
		if err := tx.Create(&meta).Error; err != nil {
			return fmt.Errorf("writing snapshot meta: %w", err)
		}
		return nil
	})
}

// LoadInteractions returns every interaction in log order.
func (c *DBClient) LoadInteractions() ([]models.InteractionRow, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Interaction
	if err := c.DB.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	out := make([]models.InteractionRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.InteractionRow{
			UserID:           r.UserID,
			SongID:           r.SongID,
			SourceSystemTab:  r.SourceSystemTab,
			SourceType:       r.SourceType,
			SourceScreenName: r.SourceScreenName,
			City:             r.City,
			RegisteredVia:    r.RegisteredVia,
			Gender:           r.Gender,
			Target:           r.Target,
		})
	}
	return out, nil
}

// LoadCatalog returns every song in catalog order.
func (c *DBClient) LoadCatalog() ([]models.SongRow, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Song
	if err := c.DB.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying songs: %w", err)
	}
	out := make([]models.SongRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, models.SongRow{
			SongID:     s.SongID,
			Name:       s.Name,
			ArtistName: s.ArtistName,
			SongLength: s.SongLength,
			HasLength:  s.HasLength,
			Language:   s.Language,
			GenreIDs:   s.GenreIDs,
			Composer:   s.Composer,
			Lyricist:   s.Lyricist,
		})
	}
	return out, nil
}

// Counts returns the number of stored interactions and songs.
func (c *DBClient) Counts() (interactions, songs int64, err error) {
	if c == nil || c.DB == nil {
		return 0, 0, errors.New(errDBClientNil)
	}
	if err := c.DB.Model(&Interaction{}).Count(&interactions).Error; err != nil {
		return 0, 0, fmt.Errorf("counting interactions: %w", err)
	}
	if err := c.DB.Model(&Song{}).Count(&songs).Error; err != nil {
		return 0, 0, fmt.Errorf("counting songs: %w", err)
	}
	return interactions, songs, nil
}

// LatestMeta returns the most recent snapshot record.
func (c *DBClient) LatestMeta() (*Meta, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var m Meta
	if err := c.DB.Order("id desc").First(&m).Error; err != nil {
		return nil, fmt.Errorf("reading snapshot meta: %w", err)
	}
	return &m, nil
}
