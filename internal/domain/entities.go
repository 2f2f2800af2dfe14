package domain

import "fmt"

// ShowKey identifies one show in the cache: the (artist, date) pair
// every lookup is keyed on.
type ShowKey struct {
	Artist string // Archive collection name, e.g. "GratefulDead"
	Date   string // Show date in YYYY-MM-DD form
}

// String renders the key for display and filtering ("GratefulDead 1977-05-08")
func (k ShowKey) String() string {
	return fmt.Sprintf("%s %s", k.Artist, k.Date)
}

// SongRecord is one downloaded audio file. A record is written exactly once,
// at the end of a successful download, and never updated or deleted.
type SongRecord struct {
	Identifier string `json:"identifier"` // Archive item id the file came from
	Title      string `json:"title"`      // File name as reported by the remote listing
	Artist     string `json:"artist"`     // Query dimension
	Date       string `json:"date"`       // Query dimension
	FilePath   string `json:"file_path"`  // Local path the file was written to
}

// Key returns the store key for this record. Identifier alone is not unique
// enough - one archive item holds a whole show's worth of tracks - so the
// file title is part of the key.
func (r SongRecord) Key() string {
	return r.Identifier + "/" + r.Title
}

// ArchiveItem is one candidate returned by a show search
type ArchiveItem struct {
	Identifier string // Unique archive item id
	Title      string // Item title, may be empty
}

// FileEntry describes one file inside an archive item's listing
type FileEntry struct {
	Name   string // File name within the item
	Format string // Declared format, e.g. "mp3", "flac"
	Size   int64  // Size in bytes, 0 if not reported
}
