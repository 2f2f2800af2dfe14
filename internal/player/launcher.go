package player

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// playerConfig holds the default arguments that keep a player headless and
// exiting when the file ends
type playerConfig struct {
	defaultArgs []string
}

// players registry - single source of truth for known player configuration
var players = map[string]playerConfig{
	"mpv": {
		defaultArgs: []string{"--no-video", "--really-quiet"},
	},
	"vlc": {
		defaultArgs: []string{"--intf", "dummy", "--play-and-exit"},
	},
	"cvlc": {
		defaultArgs: []string{"--play-and-exit"},
	},
	"ffplay": {
		defaultArgs: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"},
	},
}

// candidatePlayers defines the detection order when no player is configured
var candidatePlayers = []string{"mpv", "cvlc", "vlc", "ffplay"}

// Launcher runs local audio files in an external player process and keeps
// a handle to the running process so it can be stopped later. At most one
// process is tracked; Stop terminates it.
type Launcher struct {
	command string
	args    []string
	logger  *slog.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewLauncher creates a Launcher. An empty command auto-detects the first
// candidate player found in PATH.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}

	if command == "" {
		command = detectPlayer(logger)
	}

	// Prepend registry defaults for known players
	base := strings.ToLower(filepath.Base(command))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if cfg, ok := players[base]; ok {
		args = append(append([]string{}, cfg.defaultArgs...), args...)
	}

	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
	}
}

// detectPlayer returns the first candidate player present in PATH
func detectPlayer(logger *slog.Logger) string {
	for _, name := range candidatePlayers {
		if _, err := exec.LookPath(name); err == nil {
			logger.Debug("detected player", "command", name)
			return name
		}
	}
	// Nothing found; Launch will fail with a useful error
	return candidatePlayers[0]
}

// Launch starts playing a file. The caller is responsible for stopping any
// previous playback first.
func (l *Launcher) Launch(path string) error {
	if _, err := exec.LookPath(l.command); err != nil {
		return fmt.Errorf("player %q not found in PATH: %w", l.command, err)
	}

	args := append(append([]string{}, l.args...), path)
	cmd := exec.Command(l.command, args...)

	l.logger.Info("launching player", "command", l.command, "path", path)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}

	l.mu.Lock()
	l.cmd = cmd
	l.mu.Unlock()

	// Reap the process when it exits on its own
	go cmd.Wait()

	return nil
}

// Stop terminates the tracked player process, if any
func (l *Launcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil || l.cmd.Process == nil {
		return nil
	}

	err := l.cmd.Process.Kill()
	l.cmd = nil

	// The process may have exited on its own already
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to stop player: %w", err)
	}
	return nil
}
