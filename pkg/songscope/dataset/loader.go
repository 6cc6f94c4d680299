// Package dataset loads the interaction log and the song catalog from
// delimited text into typed, read-only tables.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope/blob"
)

// LoadInteractions parses an interaction log with a header row. The user
// column may be named msno or user_id; song_id is required and every other
// column is optional.
func LoadInteractions(r io.Reader) ([]models.InteractionRow, error) {
	cr := newReader(r)
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading interactions header: %w", err)
	}
	h := newHeader(head)

	userCol, err := h.require("msno", "user_id")
	if err != nil {
		return nil, err
	}
	songCol, err := h.require("song_id")
	if err != nil {
		return nil, err
	}
	var (
		tabCol    = h.index("source_system_tab")
		typeCol   = h.index("source_type")
		screenCol = h.index("source_screen_name")
		cityCol   = h.index("city")
		viaCol    = h.index("registered_via")
		genderCol = h.index("gender")
		targetCol = h.index("target")
		rows      []models.InteractionRow
		line      = 1
	)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("interactions line %d: %w", line, err)
		}

		via, err := parseInt32(field(rec, viaCol))
		if err != nil {
			return nil, fmt.Errorf("interactions line %d registered_via: %w", line, err)
		}
		target, err := parseInt32(field(rec, targetCol))
		if err != nil {
			return nil, fmt.Errorf("interactions line %d target: %w", line, err)
		}

		rows = append(rows, models.InteractionRow{
			UserID:           field(rec, userCol),
			SongID:           field(rec, songCol),
			SourceSystemTab:  field(rec, tabCol),
			SourceType:       field(rec, typeCol),
			SourceScreenName: field(rec, screenCol),
			City:             field(rec, cityCol), // kept as text even when numeric-looking
			RegisteredVia:    via,
			Gender:           field(rec, genderCol),
			Target:           target,
		})
	}
	return rows, nil
}

// LoadCatalog parses a song catalog with a header row. song_id is required.
func LoadCatalog(r io.Reader) ([]models.SongRow, error) {
	cr := newReader(r)
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	h := newHeader(head)

	idCol, err := h.require("song_id")
	if err != nil {
		return nil, err
	}
	var (
		nameCol     = h.index("name")
		artistCol   = h.index("artist_name")
		lengthCol   = h.index("song_length")
		langCol     = h.index("language")
		genreCol    = h.index("genre_ids")
		composerCol = h.index("composer")
		lyricistCol = h.index("lyricist")
		rows        []models.SongRow
		line        = 1
	)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}

		length, ok, err := parseLength(field(rec, lengthCol))
		if err != nil {
			return nil, fmt.Errorf("catalog line %d song_length: %w", line, err)
		}

		rows = append(rows, models.SongRow{
			SongID:     field(rec, idCol),
			Name:       field(rec, nameCol), // kept as text even when numeric-looking
			ArtistName: field(rec, artistCol),
			SongLength: length,
			HasLength:  ok,
			Language:   field(rec, langCol),
			GenreIDs:   field(rec, genreCol),
			Composer:   field(rec, composerCol),
			Lyricist:   field(rec, lyricistCol),
		})
	}
	return rows, nil
}

// newReader rejects rows whose field count differs from the header's.
func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	return cr
}

// Tables holds the two loaded datasets. It is never modified after
// NewTables returns.
type Tables struct {
	Interactions []models.InteractionRow
	Catalog      []models.SongRow
	Generation   string // identifies this load, reported by health endpoints

	songs map[string]int
}

// NewTables deduplicates the catalog by song_id (first row wins) and builds
// the song index.
func NewTables(interactions []models.InteractionRow, catalog []models.SongRow) *Tables {
	songs := make(map[string]int, len(catalog))
	deduped := make([]models.SongRow, 0, len(catalog))
	for _, s := range catalog {
		if _, seen := songs[s.SongID]; seen {
			continue
		}
		songs[s.SongID] = len(deduped)
		deduped = append(deduped, s)
	}
	return &Tables{
		Interactions: interactions,
		Catalog:      deduped,
		Generation:   uuid.NewString(),
		songs:        songs,
	}
}

// Song looks up a catalog row by id.
func (t *Tables) Song(songID string) (models.SongRow, bool) {
	i, ok := t.songs[songID]
	if !ok {
		return models.SongRow{}, false
	}
	return t.Catalog[i], true
}

// Load opens both sources through opener and parses them. Any failure is
// returned as-is; there is no partial load.
func Load(ctx context.Context, opener blob.Opener, interactionsURI, catalogURI string) (*Tables, error) {
	interactions, err := loadFrom(ctx, opener, interactionsURI, LoadInteractions)
	if err != nil {
		return nil, fmt.Errorf("loading interactions: %w", err)
	}
	catalog, err := loadFrom(ctx, opener, catalogURI, LoadCatalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return NewTables(interactions, catalog), nil
}

func loadFrom[T any](ctx context.Context, opener blob.Opener, uri string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	rc, err := opener.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parse(rc)
}
