package service

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/deadair/tapedeck/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ShowsService lists and filters the shows already in the cache
type ShowsService struct {
	store  domain.SongStore
	logger *slog.Logger
}

// NewShowsService creates a new shows service
func NewShowsService(store domain.SongStore, logger *slog.Logger) *ShowsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShowsService{
		store:  store,
		logger: logger,
	}
}

// List returns every cached show, ordered by artist then date
func (s *ShowsService) List() ([]domain.ShowKey, error) {
	return s.store.DistinctShows()
}

// Filter returns cached shows fuzzily matching query, best match first.
// An empty query returns everything in store order.
func (s *ShowsService) Filter(query string) ([]domain.ShowKey, error) {
	shows, err := s.store.DistinctShows()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return shows, nil
	}

	labels := make([]string, len(shows))
	for i, key := range shows {
		labels[i] = key.String()
	}

	matches := fuzzy.RankFindFold(query, labels)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	results := make([]domain.ShowKey, 0, len(matches))
	for _, match := range matches {
		results = append(results, shows[match.OriginalIndex])
	}

	s.logger.Debug("filtered shows", "query", query, "results", len(results))
	return results, nil
}
