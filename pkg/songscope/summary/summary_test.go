package summary

import (
	"math"
	"reflect"
	"testing"

	"github.com/himanishpuri/SongScope/pkg/models"
)

type mapLookup map[string]models.SongRow

func (m mapLookup) Song(id string) (models.SongRow, bool) {
	s, ok := m[id]
	return s, ok
}

func catalog() mapLookup {
	return mapLookup{
		"S1": {SongID: "S1", ArtistName: "A", GenreIDs: "465", Language: "3.0", SongLength: 200000, HasLength: true},
		"S2": {SongID: "S2", ArtistName: "B", GenreIDs: "958|1259", Language: "52.0", SongLength: 100000, HasLength: true},
		"S3": {SongID: "S3", ArtistName: "C", GenreIDs: "465", Language: "3.0"},
		"S4": {SongID: "S4", ArtistName: "D", GenreIDs: "7", Language: "-1.0", SongLength: 50000, HasLength: true},
		"S5": {SongID: "S5", ArtistName: "E", GenreIDs: "", Language: "10.0", SongLength: 50000, HasLength: true},
	}
}

func plays(songIDs ...string) []models.InteractionRow {
	rows := make([]models.InteractionRow, len(songIDs))
	for i, id := range songIDs {
		rows[i] = models.InteractionRow{UserID: "U1", SongID: id}
	}
	return rows
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, catalog())

	if s.HasData() {
		t.Error("expected no data for empty subset")
	}
	if len(s.TopArtists) != 0 || len(s.TopGenres) != 0 || len(s.TopLanguages) != 0 {
		t.Errorf("expected empty top lists, got %+v", s)
	}
	if s.AvgSongLength != nil {
		t.Errorf("expected nil average, got %v", *s.AvgSongLength)
	}
}

func TestSummarizeScenario(t *testing.T) {
	// U1 played S1, S2, S1
	s := Summarize(plays("S1", "S2", "S1"), catalog())

	if s.Plays != 3 {
		t.Errorf("expected 3 plays, got %d", s.Plays)
	}
	if !reflect.DeepEqual(s.TopArtists, []string{"A", "B"}) {
		t.Errorf("TopArtists = %v, want [A B]", s.TopArtists)
	}
	if s.AvgSongLength == nil {
		t.Fatal("expected an average")
	}
	want := (200000.0 + 100000.0 + 200000.0) / 3
	if math.Abs(*s.AvgSongLength-want) > 1e-9 {
		t.Errorf("AvgSongLength = %v, want %v", *s.AvgSongLength, want)
	}
}

func TestSummarizeTopNBoundedAndSorted(t *testing.T) {
	s := Summarize(plays("S4", "S2", "S2", "S1", "S3", "S5", "S2", "S1"), catalog())

	for name, list := range map[string][]string{
		"artists":   s.TopArtists,
		"genres":    s.TopGenres,
		"languages": s.TopLanguages,
	} {
		if len(list) > TopN {
			t.Errorf("%s has %d entries, cap is %d", name, len(list), TopN)
		}
	}

	// B=3, A=2, then D/C/E tie at 1 and D was seen first
	if !reflect.DeepEqual(s.TopArtists, []string{"B", "A", "D"}) {
		t.Errorf("TopArtists = %v, want [B A D]", s.TopArtists)
	}
	// 958|1259=3, 465=3 (S1,S1,S3): tie broken by first encounter
	if !reflect.DeepEqual(s.TopGenres, []string{"958|1259", "465", "7"}) {
		t.Errorf("TopGenres = %v", s.TopGenres)
	}
	if !reflect.DeepEqual(s.TopLanguages, []string{"52.0", "3.0", "-1.0"}) {
		t.Errorf("TopLanguages = %v", s.TopLanguages)
	}
}

func TestSummarizeSkipsUnknownSongsAndMissingLengths(t *testing.T) {
	s := Summarize(plays("S3", "S9"), catalog())

	if s.Plays != 1 {
		t.Errorf("expected unknown song to be skipped, got %d plays", s.Plays)
	}
	if s.AvgSongLength != nil {
		t.Error("expected nil average when no length is known")
	}
	if !reflect.DeepEqual(s.TopArtists, []string{"C"}) {
		t.Errorf("TopArtists = %v, want [C]", s.TopArtists)
	}
}
