// Package summary describes a user's listening preferences from their
// interaction rows.
package summary

import (
	"sort"

	"github.com/himanishpuri/SongScope/pkg/models"
	"github.com/himanishpuri/SongScope/pkg/songscope/selection"
)

// TopN is the length cap of every top list.
const TopN = 3

// Summarize counts artists, genres and languages over the played rows and
// averages the known song lengths. Each interaction row counts once, so a
// song played twice weighs twice. Rows whose song is not in the catalog are
// ignored.
func Summarize(subset []models.InteractionRow, catalog selection.SongLookup) models.PreferenceSummary {
	var (
		artists   = newCounter()
		genres    = newCounter()
		languages = newCounter()
		lengthSum float64
		lengthN   int
		plays     int
	)

	for _, r := range subset {
		song, ok := catalog.Song(r.SongID)
		if !ok {
			continue
		}
		plays++
		artists.add(song.ArtistName)
		genres.add(song.GenreIDs)
		languages.add(song.Language)
		if song.HasLength {
			lengthSum += song.SongLength
			lengthN++
		}
	}

	s := models.PreferenceSummary{
		Plays:        plays,
		TopArtists:   artists.top(TopN),
		TopGenres:    genres.top(TopN),
		TopLanguages: languages.top(TopN),
	}
	if lengthN > 0 {
		avg := lengthSum / float64(lengthN)
		s.AvgSongLength = &avg
	}
	return s
}

// counter tallies values and remembers first-encounter order for ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if v == "" {
		return
	}
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) top(n int) []string {
	ranked := make([]string, len(c.order))
	copy(ranked, c.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.counts[ranked[i]] > c.counts[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
