package songscope

import (
	"net/http"

	"github.com/himanishpuri/SongScope/pkg/songscope/blob"
	"github.com/himanishpuri/SongScope/pkg/songscope/dataset"
	"github.com/himanishpuri/SongScope/pkg/songscope/model"
)

type Config struct {
	InteractionsPath string
	CatalogPath      string
	SnapshotPath     string
	ModelDir         string
	Logger           Logger
	Opener           blob.Opener
	S3               blob.S3Config
	Recommender      model.Recommender
	Tables           *dataset.Tables
	ModelHTTPClient  *http.Client
}

type Option func(*Config)

func WithInteractionsPath(path string) Option {
	return func(c *Config) {
		c.InteractionsPath = path
	}
}

func WithCatalogPath(path string) Option {
	return func(c *Config) {
		c.CatalogPath = path
	}
}

// WithSnapshot loads both tables from a SQLite snapshot written by
// WriteSnapshot instead of the CSV sources.
func WithSnapshot(path string) Option {
	return func(c *Config) {
		c.SnapshotPath = path
	}
}

func WithModelDir(dir string) Option {
	return func(c *Config) {
		c.ModelDir = dir
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithOpener(o blob.Opener) Option {
	return func(c *Config) {
		c.Opener = o
	}
}

func WithS3Config(cfg blob.S3Config) Option {
	return func(c *Config) {
		c.S3 = cfg
	}
}

// WithRecommender skips model loading and uses rec directly.
func WithRecommender(rec model.Recommender) Option {
	return func(c *Config) {
		c.Recommender = rec
	}
}

// WithTables skips dataset loading and uses already built tables.
func WithTables(t *dataset.Tables) Option {
	return func(c *Config) {
		c.Tables = t
	}
}

func WithModelHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.ModelHTTPClient = client
	}
}

func defaultConfig() *Config {
	return &Config{
		InteractionsPath: "data_and_model/data.csv",
		CatalogPath:      "data_and_model/songs.csv",
		ModelDir:         "data_and_model/model",
		Logger:           nil,
	}
}
