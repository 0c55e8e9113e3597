// Package history persists finished batch summaries in a local bolt
// database so past runs can be reviewed.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/ytget/playlist-downloader/internal/model"
)

var buckets = struct {
	Metadata []byte
	Batches  []byte
}{
	Metadata: []byte("__metadata__"),
	Batches:  []byte("batches"),
}

var metadataKeys = struct {
	Version []byte
}{
	Version: []byte("version"),
}

const currentVersion = 1

// File mode for the database file
const dbFileMode = 0600

// Record is one persisted batch run.
type Record struct {
	ID             string                    `json:"id"`
	PlaylistTitle  string                    `json:"playlist_title"`
	PlaylistURL    string                    `json:"playlist_url"`
	Mode           model.DownloadMode        `json:"mode"`
	FinishedAt     time.Time                 `json:"finished_at"`
	Classification model.BatchClassification `json:"classification"`
	Summary        model.BatchSummary        `json:"summary"`
}

// Store reads and writes batch history.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, dbFileMode, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		metadata, err := tx.CreateBucketIfNotExists(buckets.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(buckets.Batches); err != nil {
			return err
		}

		var version int
		if versionBytes := metadata.Get(metadataKeys.Version); versionBytes != nil {
			if err := json.Unmarshal(versionBytes, &version); err != nil {
				return err
			}
		}

		versionBytes, err := json.Marshal(currentVersion)
		if err != nil {
			return err
		}
		return metadata.Put(metadataKeys.Version, versionBytes)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a finished batch and returns its record ID. Keys are
// UUID v7, so iteration order is chronological.
func (s *Store) Append(record Record) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate record ID: %w", err)
	}
	record.ID = id.String()
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now()
	}
	record.Classification = record.Summary.Classification()

	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(buckets.Batches)
		return bucket.Put([]byte(record.ID), data)
	})
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// Recent returns up to n records, newest first. n <= 0 returns all
// records.
func (s *Store) Recent(n int) ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(buckets.Batches).Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			if n > 0 && len(records) >= n {
				break
			}
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
