package service

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/deadair/tapedeck/internal/domain"
)

// launcher abstracts the external media player (consumer-defined interface)
type launcher interface {
	// Launch starts playing a local file
	Launch(path string) error

	// Stop terminates the running player, if any. No-op otherwise.
	Stop() error
}

// PlaybackState is the service's current state
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StatePlaying
)

// PlaybackService keeps at most one playback active. Starting a new file
// stops the previous one first; it is never left running in the background.
type PlaybackService struct {
	launcher launcher
	logger   *slog.Logger

	mu      sync.Mutex
	state   PlaybackState
	current string // path of the file being played
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(launcher launcher, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher: launcher,
		logger:   logger,
	}
}

// Play starts playback of a local file. A nonexistent path leaves the
// current state untouched and reports domain.ErrNotFound.
func (s *PlaybackService) Play(path string) error {
	if _, err := os.Stat(path); err != nil {
		s.logger.Warn("file not found", "path", path)
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StatePlaying {
		if err := s.launcher.Stop(); err != nil {
			s.logger.Warn("failed to stop previous playback", "error", err)
		}
		s.state = StateIdle
		s.current = ""
	}

	if err := s.launcher.Launch(path); err != nil {
		s.logger.Error("failed to launch player", "path", path, "error", err)
		return err
	}

	s.state = StatePlaying
	s.current = path
	s.logger.Info("playing", "path", path)
	return nil
}

// Stop ends the current playback. No-op when idle.
func (s *PlaybackService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return nil
	}

	if err := s.launcher.Stop(); err != nil {
		return err
	}

	s.state = StateIdle
	s.current = ""
	s.logger.Info("playback stopped")
	return nil
}

// NowPlaying returns the path of the active file, if any
func (s *PlaybackService) NowPlaying() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.state == StatePlaying
}

// State returns the current playback state
func (s *PlaybackService) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
