package domain

import (
	"context"
)

// ArchiveRepository provides access to the remote media archive
type ArchiveRepository interface {
	// SearchShows returns candidate items for an (artist, date) query,
	// in the archive's own relevance order. An empty slice is a normal
	// "no such show" outcome, not an error.
	SearchShows(ctx context.Context, artist, date string) ([]ArchiveItem, error)

	// GetFiles returns the file listing for an archive item
	GetFiles(ctx context.Context, identifier string) ([]FileEntry, error)

	// DownloadFiles fetches the named files of an item in one batch and
	// materializes them under destDir/<identifier>/. Returns the local
	// paths in the order of names.
	DownloadFiles(ctx context.Context, identifier string, names []string, destDir string) ([]string, error)
}

// SongStore is the durable record of what has already been downloaded
type SongStore interface {
	// Lookup returns the file path of every record matching the exact
	// (artist, date) pair. Empty slice on miss.
	Lookup(artist, date string) ([]string, error)

	// Insert records one downloaded file. Inserting a record whose key
	// already exists is a silent no-op.
	Insert(rec SongRecord) error

	// DistinctShows enumerates every distinct (artist, date) pair,
	// ordered by artist then date.
	DistinctShows() ([]ShowKey, error)

	Close() error
}
