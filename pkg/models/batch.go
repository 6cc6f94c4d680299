package models

import "fmt"

// RecordBatch is the columnar input of a recommendation model. Every field
// holds one value per selected interaction row.
type RecordBatch struct {
	Msno             []string `json:"msno"`
	SongID           []string `json:"song_id"`
	SourceSystemTab  []string `json:"source_system_tab"`
	SourceType       []string `json:"source_type"`
	SourceScreenName []string `json:"source_screen_name"`
	City             []string `json:"city"`
	Target           []int32  `json:"target"`
	RegisteredVia    []int32  `json:"registered_via"`
	Gender           []string `json:"gender"`
}

// NewRecordBatch builds a batch with one record per interaction row.
func NewRecordBatch(rows []InteractionRow) RecordBatch {
	n := len(rows)
	b := RecordBatch{
		Msno:             make([]string, 0, n),
		SongID:           make([]string, 0, n),
		SourceSystemTab:  make([]string, 0, n),
		SourceType:       make([]string, 0, n),
		SourceScreenName: make([]string, 0, n),
		City:             make([]string, 0, n),
		Target:           make([]int32, 0, n),
		RegisteredVia:    make([]int32, 0, n),
		Gender:           make([]string, 0, n),
	}
	for _, r := range rows {
		b.Msno = append(b.Msno, r.UserID)
		b.SongID = append(b.SongID, r.SongID)
		b.SourceSystemTab = append(b.SourceSystemTab, r.SourceSystemTab)
		b.SourceType = append(b.SourceType, r.SourceType)
		b.SourceScreenName = append(b.SourceScreenName, r.SourceScreenName)
		b.City = append(b.City, r.City)
		b.Target = append(b.Target, r.Target)
		b.RegisteredVia = append(b.RegisteredVia, r.RegisteredVia)
		b.Gender = append(b.Gender, r.Gender)
	}
	return b
}

// Len returns the number of records in the batch.
func (b RecordBatch) Len() int {
	return len(b.Msno)
}

// Validate checks that every field has the same length.
func (b RecordBatch) Validate() error {
	n := len(b.Msno)
	lengths := map[string]int{
		"song_id":            len(b.SongID),
		"source_system_tab":  len(b.SourceSystemTab),
		"source_type":        len(b.SourceType),
		"source_screen_name": len(b.SourceScreenName),
		"city":               len(b.City),
		"target":             len(b.Target),
		"registered_via":     len(b.RegisteredVia),
		"gender":             len(b.Gender),
	}
	for field, l := range lengths {
		if l != n {
			return fmt.Errorf("field %s has %d values, msno has %d", field, l, n)
		}
	}
	return nil
}

// Columns returns the batch keyed by model input name.
func (b RecordBatch) Columns() map[string]any {
	return map[string]any{
		"msno":               b.Msno,
		"song_id":            b.SongID,
		"source_system_tab":  b.SourceSystemTab,
		"source_type":        b.SourceType,
		"source_screen_name": b.SourceScreenName,
		"city":               b.City,
		"target":             b.Target,
		"registered_via":     b.RegisteredVia,
		"gender":             b.Gender,
	}
}

// Prediction is a model's answer to a RecordBatch: one score list and one
// title list per input record, ordered by descending relevance.
type Prediction struct {
	Scores [][]float32 `json:"scores"`
	Titles [][]string  `json:"titles"`
}
