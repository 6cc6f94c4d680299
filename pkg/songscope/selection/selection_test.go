package selection

import (
	"reflect"
	"testing"

	"github.com/himanishpuri/SongScope/pkg/models"
)

type mapLookup map[string]models.SongRow

func (m mapLookup) Song(id string) (models.SongRow, bool) {
	s, ok := m[id]
	return s, ok
}

func sampleRows() []models.InteractionRow {
	return []models.InteractionRow{
		{UserID: "U1", SongID: "S1", SourceType: "a"},
		{UserID: "U2", SongID: "S3"},
		{UserID: "U1", SongID: "S2", SourceType: "b"},
		{UserID: "U3", SongID: "S1"},
		{UserID: "U1", SongID: "S1", SourceType: "c"},
		{UserID: "U2", SongID: "S1"},
	}
}

func sampleCatalog() []models.SongRow {
	return []models.SongRow{
		{SongID: "S2", Name: "Two"},
		{SongID: "S1", Name: "One"},
		{SongID: "S3", Name: "Three"},
	}
}

func TestUserIDs(t *testing.T) {
	got := UserIDs(sampleRows())
	want := []string{"U1", "U2", "U3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UserIDs = %v, want %v", got, want)
	}
}

func TestSelectUserScenario(t *testing.T) {
	subset := SelectUser(sampleRows(), "U1")
	if len(subset) != 3 {
		t.Fatalf("expected 3 rows for U1, got %d", len(subset))
	}
	for _, r := range subset {
		if r.UserID != "U1" {
			t.Errorf("row for %s leaked into U1 selection", r.UserID)
		}
	}
	// order preserved, no dedup
	if subset[0].SourceType != "a" || subset[1].SourceType != "b" || subset[2].SourceType != "c" {
		t.Errorf("order not preserved: %+v", subset)
	}

	unique := UniqueSongIDs(subset)
	if !reflect.DeepEqual(unique, []string{"S1", "S2"}) {
		t.Errorf("unique songs = %v, want [S1 S2]", unique)
	}
}

func TestSelectUserUnionReconstructsTable(t *testing.T) {
	rows := sampleRows()
	total := 0
	counts := make(map[models.InteractionRow]int)
	for _, id := range UserIDs(rows) {
		subset := SelectUser(rows, id)
		total += len(subset)
		for _, r := range subset {
			counts[r]++
		}
	}
	if total != len(rows) {
		t.Errorf("union has %d rows, table has %d", total, len(rows))
	}
	for _, r := range rows {
		counts[r]--
	}
	for r, c := range counts {
		if c != 0 {
			t.Errorf("row %+v count off by %d", r, c)
		}
	}
}

func TestSelectionIdempotent(t *testing.T) {
	rows := sampleRows()
	a := SelectSong(SelectUser(rows, "U1"), "S1")
	b := SelectSong(SelectUser(rows, "U1"), "S1")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated selection differs: %v vs %v", a, b)
	}
	if len(a) != 2 {
		t.Errorf("expected 2 rows for U1/S1, got %d", len(a))
	}
}

func TestSelectUnknown(t *testing.T) {
	if got := SelectUser(sampleRows(), "nobody"); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
	if got := SelectSong(SelectUser(sampleRows(), "U1"), "S9"); len(got) != 0 {
		t.Errorf("expected empty song selection, got %v", got)
	}
}

func TestPlayedSongsCatalogOrder(t *testing.T) {
	played := PlayedSongs(sampleCatalog(), SelectUser(sampleRows(), "U1"))
	if len(played) != 2 {
		t.Fatalf("expected 2 played songs, got %d", len(played))
	}
	if played[0].SongID != "S2" || played[1].SongID != "S1" {
		t.Errorf("expected catalog order [S2 S1], got %v", played)
	}

	choices := SongChoices(played)
	if choices[1].SongID != "S1" || choices[1].Name != "One" {
		t.Errorf("unexpected choice %+v", choices[1])
	}
}

func TestCatalogByIDs(t *testing.T) {
	lookup := mapLookup{"S1": {SongID: "S1"}, "S2": {SongID: "S2"}}

	rows, pos := CatalogByIDs(lookup, []string{"S2", "S9", "S1", "S2"})
	if len(rows) != 2 {
		t.Fatalf("expected 2 joined rows, got %d", len(rows))
	}
	if rows[0].SongID != "S2" || rows[1].SongID != "S1" {
		t.Errorf("expected request order, got %v", rows)
	}
	if !reflect.DeepEqual(pos, []int{0, 2}) {
		t.Errorf("positions = %v, want [0 2]", pos)
	}
	requested := map[string]bool{"S2": true, "S9": true, "S1": true}
	for _, r := range rows {
		if !requested[r.SongID] {
			t.Errorf("joined row %s was not requested", r.SongID)
		}
	}
}

func TestSongInfoMissing(t *testing.T) {
	if got := SongInfo(mapLookup{}, "S9"); len(got) != 0 {
		t.Errorf("expected empty table for unknown song, got %v", got)
	}
}
