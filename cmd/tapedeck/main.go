package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/deadair/tapedeck/internal/archive"
	"github.com/deadair/tapedeck/internal/config"
	"github.com/deadair/tapedeck/internal/log"
	"github.com/deadair/tapedeck/internal/player"
	"github.com/deadair/tapedeck/internal/service"
	"github.com/deadair/tapedeck/internal/store"
	"github.com/deadair/tapedeck/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		artist      string
		date        string
		format      string
		listShows   bool
		playFirst   bool
	)

	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&artist, "artist", "", "archive collection to fetch, e.g. GratefulDead")
	flag.StringVar(&date, "date", "", "show date in YYYY-MM-DD form")
	flag.StringVar(&format, "format", "", "preferred audio format (default from config)")
	flag.BoolVar(&listShows, "list", false, "list cached shows and exit")
	flag.BoolVar(&playFirst, "play", false, "play the first file after fetching")
	flag.Parse()

	if showVersion {
		fmt.Printf("tapedeck %s\n", Version)
		return
	}

	if err := run(artist, date, format, listShows, playFirst); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(artist, date, format string, listShows, playFirst bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting tapedeck", "version", Version)

	songs, err := store.Open(cfg.Storage.CacheDB)
	if err != nil {
		return fmt.Errorf("failed to open song cache: %w", err)
	}
	defer songs.Close()

	client := archive.NewClient(cfg.Archive, logger)
	launcher := player.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger)

	acquireSvc := service.NewAcquireService(songs, client, cfg.Storage.DownloadDir, logger)
	showsSvc := service.NewShowsService(songs, logger)
	playbackSvc := service.NewPlaybackService(launcher, logger)

	if format == "" {
		format = cfg.Archive.Format
	}

	switch {
	case listShows:
		return runList(showsSvc)
	case artist != "" || date != "":
		return runAcquire(acquireSvc, playbackSvc, artist, date, format, playFirst)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("not a terminal; use -artist and -date for scripted fetches")
	}

	model := tui.NewModel(showsSvc, acquireSvc, playbackSvc)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runList prints every cached show, one per line
func runList(shows *service.ShowsService) error {
	keys, err := shows.List()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		fmt.Println("No cached shows found.")
		return nil
	}

	for _, key := range keys {
		fmt.Printf("%s - %s\n", key.Artist, key.Date)
	}
	return nil
}

// runAcquire fetches one show and optionally plays the first file
func runAcquire(acquire *service.AcquireService, playback *service.PlaybackService, artist, date, format string, playFirst bool) error {
	if artist == "" || date == "" {
		return fmt.Errorf("both -artist and -date are required")
	}

	paths, err := acquire.Acquire(context.Background(), artist, date, format)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Printf("No %s recordings found for %s on %s.\n", format, artist, date)
		return nil
	}

	for _, path := range paths {
		fmt.Println(path)
	}

	if playFirst {
		// The player process outlives this one
		return playback.Play(paths[0])
	}
	return nil
}
