package songscope

import (
	"fmt"

	"github.com/himanishpuri/SongScope/pkg/songscope/dataset"
	"github.com/himanishpuri/SongScope/pkg/songscope/storage"
)

// loadSnapshot reads both tables from a SQLite snapshot and describes where
// the snapshot's data originally came from. The catalog was deduplicated
// when the snapshot was written, so NewTables keeps it as is.
func loadSnapshot(path string) (*dataset.Tables, string, error) {
	db, err := storage.OpenExisting(path)
	if err != nil {
		return nil, "", err
	}
	defer db.Close()

	interactions, err := db.LoadInteractions()
	if err != nil {
		return nil, "", fmt.Errorf("loading interactions from snapshot: %w", err)
	}
	catalog, err := db.LoadCatalog()
	if err != nil {
		return nil, "", fmt.Errorf("loading catalog from snapshot: %w", err)
	}

	source := "snapshot:" + path
	if meta, err := db.LatestMeta(); err == nil {
		source = fmt.Sprintf("%s (imported %s from %s,%s)", source,
			meta.CreatedAt.Format("2006-01-02 15:04"), meta.InteractionsURI, meta.CatalogURI)
	}
	return dataset.NewTables(interactions, catalog), source, nil
}

// WriteSnapshot stores tables at path, replacing any previous snapshot, and
// checks that every row landed. The URIs are recorded so a later load can
// report where the data came from.
func WriteSnapshot(path string, tables *dataset.Tables, interactionsURI, catalogURI string) error {
	db, err := storage.NewDBClientWithPath(path)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer db.Close()

	meta := storage.Meta{InteractionsURI: interactionsURI, CatalogURI: catalogURI}
	if err := db.ReplaceTables(tables.Interactions, tables.Catalog, meta); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	nInteractions, nSongs, err := db.Counts()
	if err != nil {
		return err
	}
	if int(nInteractions) != len(tables.Interactions) || int(nSongs) != len(tables.Catalog) {
		return fmt.Errorf("snapshot holds %d interactions and %d songs, expected %d and %d",
			nInteractions, nSongs, len(tables.Interactions), len(tables.Catalog))
	}
	return nil
}
