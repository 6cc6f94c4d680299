package model

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/himanishpuri/SongScope/pkg/models"
)

type candidate struct {
	songID string
	score  float32
}

// lookupModel is a precomputed item-to-item model: for every query song it
// stores the ranked candidates exported from the trained retrieval model.
type lookupModel struct {
	name  string
	topK  int
	table map[string][]candidate
}

func loadLookup(ctx context.Context, dir string, m Manifest) (*lookupModel, error) {
	f, err := os.Open(filepath.Join(dir, m.Candidates))
	if err != nil {
		return nil, fmt.Errorf("opening candidates: %w", err)
	}
	defer f.Close()

	table, err := readCandidates(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadManifest, err)
	}
	return &lookupModel{name: m.Name, topK: m.TopK, table: table}, nil
}

// readCandidates parses query_song_id,song_id,score rows and sorts each
// query's candidates by descending score, keeping file order on ties.
func readCandidates(ctx context.Context, r io.Reader) (map[string][]candidate, error) {
	cr := csv.NewReader(r)
	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading candidates header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range head {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"query_song_id", "song_id", "score"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("candidates: missing column %s", name)
		}
	}

	table := make(map[string][]candidate)
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("candidates line %d: %w", line, err)
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[cols["score"]]), 32)
		if err != nil {
			return nil, fmt.Errorf("candidates line %d: bad score: %w", line, err)
		}
		q := strings.TrimSpace(rec[cols["query_song_id"]])
		table[q] = append(table[q], candidate{
			songID: strings.TrimSpace(rec[cols["song_id"]]),
			score:  float32(score),
		})
	}

	for _, cands := range table {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	}
	return table, nil
}

func (l *lookupModel) Recommend(ctx context.Context, batch models.RecordBatch) (models.Prediction, error) {
	if err := checkBatch(batch); err != nil {
		return models.Prediction{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Prediction{}, err
	}

	pred := models.Prediction{
		Scores: make([][]float32, batch.Len()),
		Titles: make([][]string, batch.Len()),
	}
	for i, songID := range batch.SongID {
		scores := []float32{}
		titles := []string{}
		for _, c := range l.table[songID] {
			if len(titles) == l.topK {
				break
			}
			if c.songID == songID {
				continue
			}
			scores = append(scores, c.score)
			titles = append(titles, c.songID)
		}
		pred.Scores[i] = scores
		pred.Titles[i] = titles
	}
	return pred, nil
}
