package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/deadair/tapedeck/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketSongs = []byte("songs")

// SongStore implements domain.SongStore using BoltDB. One bucket, one
// record per downloaded file, keyed by identifier/title. Each call is a
// single transaction, so a crash never leaves a half-written record.
type SongStore struct {
	mu     sync.Mutex
	db     *bolt.DB
	closed bool
}

// Open opens or creates the database file and ensures the songs bucket
// exists. Safe to call on an existing store.
func Open(path string) (*SongStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSongs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	return &SongStore{db: db}, nil
}

// Close releases the database handle. Safe to call multiple times.
func (s *SongStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SongStore) handle() (*bolt.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	return s.db, nil
}

// Insert records one downloaded file. A record whose key already exists is
// left untouched, which makes retries of the same download a no-op.
func (s *SongStore) Insert(rec domain.SongRecord) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSongs)
		key := []byte(rec.Key())
		if b.Get(key) != nil {
			return nil // already recorded
		}
		return b.Put(key, data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return nil
}

// Lookup returns the file path of every record matching the exact
// (artist, date) pair. Order is unspecified.
func (s *SongStore) Lookup(artist, date string) ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var paths []string
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSongs).ForEach(func(_, v []byte) error {
			var rec domain.SongRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.Artist == artist && rec.Date == date {
				paths = append(paths, rec.FilePath)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}
	return paths, nil
}

// DistinctShows enumerates every distinct (artist, date) pair present in
// the store, ordered by artist then date
func (s *SongStore) DistinctShows() ([]domain.ShowKey, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.ShowKey]struct{})
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSongs).ForEach(func(_, v []byte) error {
			var rec domain.SongRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			seen[domain.ShowKey{Artist: rec.Artist, Date: rec.Date}] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStore, err)
	}

	shows := make([]domain.ShowKey, 0, len(seen))
	for key := range seen {
		shows = append(shows, key)
	}
	sort.Slice(shows, func(i, j int) bool {
		if shows[i].Artist != shows[j].Artist {
			return shows[i].Artist < shows[j].Artist
		}
		return shows[i].Date < shows[j].Date
	})

	return shows, nil
}
