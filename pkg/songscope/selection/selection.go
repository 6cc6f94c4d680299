// Package selection narrows the loaded tables to one user and one song.
// Every function is a pure function of its arguments.
package selection

import "github.com/himanishpuri/SongScope/pkg/models"

// SongLookup resolves a catalog row by song id.
type SongLookup interface {
	Song(songID string) (models.SongRow, bool)
}

// UserIDs returns the distinct user ids in first-encounter order. The
// position of an id in this slice is its dashboard index.
func UserIDs(rows []models.InteractionRow) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range rows {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return ids
}

// SelectUser returns every row of userID, in table order.
func SelectUser(rows []models.InteractionRow, userID string) []models.InteractionRow {
	var out []models.InteractionRow
	for _, r := range rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// SelectSong returns the rows of subset that played songID.
func SelectSong(subset []models.InteractionRow, songID string) []models.InteractionRow {
	var out []models.InteractionRow
	for _, r := range subset {
		if r.SongID == songID {
			out = append(out, r)
		}
	}
	return out
}

// UniqueSongIDs returns the distinct song ids of subset in first-encounter order.
func UniqueSongIDs(subset []models.InteractionRow) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range subset {
		if _, ok := seen[r.SongID]; ok {
			continue
		}
		seen[r.SongID] = struct{}{}
		ids = append(ids, r.SongID)
	}
	return ids
}

// PlayedSongs returns the catalog rows the user played, in catalog order.
// Played ids missing from the catalog are dropped.
func PlayedSongs(catalog []models.SongRow, subset []models.InteractionRow) []models.SongRow {
	played := make(map[string]struct{}, len(subset))
	for _, r := range subset {
		played[r.SongID] = struct{}{}
	}
	var out []models.SongRow
	for _, s := range catalog {
		if _, ok := played[s.SongID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// SongChoices lists the played songs for a picker.
func SongChoices(played []models.SongRow) []models.SongChoice {
	out := make([]models.SongChoice, 0, len(played))
	for _, s := range played {
		out = append(out, models.SongChoice{SongID: s.SongID, Name: s.Name})
	}
	return out
}

// CatalogByIDs joins ids against the catalog, keeping the order of ids.
// Repeated ids are joined once; unknown ids are skipped. The returned
// positions are the index of each hit within ids.
func CatalogByIDs(lookup SongLookup, ids []string) ([]models.SongRow, []int) {
	seen := make(map[string]struct{}, len(ids))
	var (
		rows      []models.SongRow
		positions []int
	)
	for i, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if song, ok := lookup.Song(id); ok {
			rows = append(rows, song)
			positions = append(positions, i)
		}
	}
	return rows, positions
}

// SongInfo returns the catalog row for songID as a zero- or one-row table.
func SongInfo(lookup SongLookup, songID string) []models.SongRow {
	if song, ok := lookup.Song(songID); ok {
		return []models.SongRow{song}
	}
	return nil
}
