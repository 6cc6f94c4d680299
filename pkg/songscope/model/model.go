// Package model loads a pre-trained recommendation model from a directory
// and exposes it behind the Recommender interface. The model's internals
// (embeddings, retrieval, ranking) are opaque to this package; it only
// honours the record-batch-in, prediction-out contract.
package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/himanishpuri/SongScope/pkg/models"
)

// ManifestFile is the file Load expects at the root of a model directory.
const ManifestFile = "manifest.json"

const (
	FormatLookup    = "lookup"
	FormatTFServing = "tfserving"
)

var (
	// ErrBadManifest is returned when the model directory cannot be interpreted.
	ErrBadManifest = errors.New("invalid model manifest")
	// ErrBatchShape is returned when a record batch has fields of unequal length.
	ErrBatchShape = errors.New("record batch fields have unequal lengths")
)

// Recommender scores a record batch. The prediction holds one title list per
// batch record, ordered by descending relevance.
type Recommender interface {
	Recommend(ctx context.Context, batch models.RecordBatch) (models.Prediction, error)
}

// Manifest describes a serialized model directory.
type Manifest struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	TopK   int    `json:"top_k"`

	// lookup
	Candidates string `json:"candidates"`

	// tfserving
	Endpoint  string            `json:"endpoint"`
	Signature string            `json:"signature"`
	Outputs   map[string]string `json:"outputs"` // "scores"/"titles" -> output tensor name
	TimeoutMs int               `json:"timeout_ms"`
}

// Option customises Load.
type Option func(*loadConfig)

type loadConfig struct {
	httpClient *http.Client
}

// WithHTTPClient sets the client used by served models.
func WithHTTPClient(c *http.Client) Option {
	return func(lc *loadConfig) {
		lc.httpClient = c
	}
}

// Load reads dir/manifest.json and returns the model it describes.
func Load(ctx context.Context, dir string, opts ...Option) (Recommender, error) {
	lc := &loadConfig{}
	for _, opt := range opts {
		opt(lc)
	}

	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	switch m.Format {
	case FormatLookup:
		return loadLookup(ctx, dir, m)
	case FormatTFServing:
		client := lc.httpClient
		if client == nil {
			client = &http.Client{Timeout: time.Duration(m.TimeoutMs) * time.Millisecond}
		}
		return newTFServing(m, client)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrBadManifest, m.Format)
	}
}

// ReadManifest parses and defaults the manifest of dir.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("reading model manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrBadManifest, err)
	}
	if m.TopK <= 0 {
		m.TopK = 10
	}
	if m.Format == FormatLookup && m.Candidates == "" {
		m.Candidates = "candidates.csv"
	}
	if m.Format == FormatTFServing {
		if m.Signature == "" {
			m.Signature = "serving_default"
		}
		if m.TimeoutMs <= 0 {
			m.TimeoutMs = 10000
		}
		if m.Outputs == nil {
			m.Outputs = map[string]string{}
		}
		if m.Outputs["scores"] == "" {
			m.Outputs["scores"] = "output_1"
		}
		if m.Outputs["titles"] == "" {
			m.Outputs["titles"] = "output_2"
		}
	}
	return m, nil
}

func checkBatch(batch models.RecordBatch) error {
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBatchShape, err)
	}
	return nil
}
