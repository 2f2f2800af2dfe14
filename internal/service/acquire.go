package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/deadair/tapedeck/internal/domain"
)

// DefaultFormat is the audio format used when a caller does not ask for one
const DefaultFormat = "mp3"

// AcquireService resolves an (artist, date, format) request into local file
// paths, serving from the song store when possible and driving the archive
// otherwise. One query runs start-to-finish at a time; the sequence as a
// whole is not atomic, but every store write is.
type AcquireService struct {
	store       domain.SongStore
	archive     domain.ArchiveRepository
	downloadDir string
	logger      *slog.Logger
}

// NewAcquireService creates a new acquisition service
func NewAcquireService(
	store domain.SongStore,
	archive domain.ArchiveRepository,
	downloadDir string,
	logger *slog.Logger,
) *AcquireService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AcquireService{
		store:       store,
		archive:     archive,
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// Acquire returns the local paths for a show. A cache hit never touches
// the network, even if the original download was incomplete. An empty
// result with a nil error means the show does not exist remotely - that
// is a normal outcome, not a failure.
func (s *AcquireService) Acquire(ctx context.Context, artist, date, format string) ([]string, error) {
	if format == "" {
		format = DefaultFormat
	}

	cached, err := s.store.Lookup(artist, date)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		s.logger.Info("cache hit", "artist", artist, "date", date, "files", len(cached))
		return cached, nil
	}

	s.logger.Info("cache miss, searching archive", "artist", artist, "date", date)

	items, err := s.archive.SearchShows(ctx, artist, date)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		s.logger.Info("no shows found", "artist", artist, "date", date)
		return nil, nil
	}

	// First result wins; the archive's own relevance order is trusted
	item := items[0]
	s.logger.Info("selected item", "identifier", item.Identifier)

	files, err := s.archive.GetFiles(ctx, item.Identifier)
	if err != nil {
		return nil, err
	}

	names := filterByFormat(files, format)
	if len(names) == 0 {
		s.logger.Info("no files in requested format", "identifier", item.Identifier, "format", format)
		return nil, nil
	}

	paths, err := s.archive.DownloadFiles(ctx, item.Identifier, names, s.downloadDir)
	if err != nil {
		return nil, err
	}

	// Record each file. A store failure aborts the remainder; records
	// already written stay put, there is no rollback.
	recorded := make([]string, 0, len(paths))
	for i, name := range names {
		rec := domain.SongRecord{
			Identifier: item.Identifier,
			Title:      name,
			Artist:     artist,
			Date:       date,
			FilePath:   paths[i],
		}
		if err := s.store.Insert(rec); err != nil {
			s.logger.Error("failed to record download", "identifier", item.Identifier, "file", name, "error", err)
			return nil, err
		}
		recorded = append(recorded, paths[i])
	}

	s.logger.Info("acquisition complete", "identifier", item.Identifier, "files", len(recorded))
	return recorded, nil
}

// filterByFormat keeps the names of files whose declared format matches,
// case-insensitively
func filterByFormat(files []domain.FileEntry, format string) []string {
	var names []string
	for _, f := range files {
		if strings.EqualFold(f.Format, format) {
			names = append(names, f.Name)
		}
	}
	return names
}
