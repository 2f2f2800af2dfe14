package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/deadair/tapedeck/internal/domain"
)

// fakeLauncher records the order of launch/stop calls
type fakeLauncher struct {
	events    []string
	launchErr error
}

func (f *fakeLauncher) Launch(path string) error {
	if f.launchErr != nil {
		return f.launchErr
	}
	f.events = append(f.events, "launch:"+path)
	return nil
}

func (f *fakeLauncher) Stop() error {
	f.events = append(f.events, "stop")
	return nil
}

func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestPlayStopsPreviousPlaybackFirst(t *testing.T) {
	l := &fakeLauncher{}
	svc := NewPlaybackService(l, nil)

	pathA := writeTempFile(t, "a.mp3")
	pathB := writeTempFile(t, "b.mp3")

	if err := svc.Play(pathA); err != nil {
		t.Fatalf("Play(a) error = %v", err)
	}
	if err := svc.Play(pathB); err != nil {
		t.Fatalf("Play(b) error = %v", err)
	}

	want := []string{"launch:" + pathA, "stop", "launch:" + pathB}
	if len(l.events) != len(want) {
		t.Fatalf("events = %v, want %v", l.events, want)
	}
	for i := range want {
		if l.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, l.events[i], want[i])
		}
	}

	current, playing := svc.NowPlaying()
	if !playing || current != pathB {
		t.Errorf("NowPlaying() = %q, %v; want %q, true", current, playing, pathB)
	}
}

func TestPlayMissingFileLeavesStateUnchanged(t *testing.T) {
	l := &fakeLauncher{}
	svc := NewPlaybackService(l, nil)

	pathA := writeTempFile(t, "a.mp3")
	if err := svc.Play(pathA); err != nil {
		t.Fatalf("Play(a) error = %v", err)
	}

	err := svc.Play(filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Play(missing) error = %v, want ErrNotFound", err)
	}

	// The original playback is untouched
	current, playing := svc.NowPlaying()
	if !playing || current != pathA {
		t.Errorf("NowPlaying() = %q, %v; want %q, true", current, playing, pathA)
	}
	if len(l.events) != 1 {
		t.Errorf("events = %v, want only the first launch", l.events)
	}
}

func TestStopFromIdleIsNoop(t *testing.T) {
	l := &fakeLauncher{}
	svc := NewPlaybackService(l, nil)

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if len(l.events) != 0 {
		t.Errorf("events = %v, want none", l.events)
	}
	if svc.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", svc.State())
	}
}

func TestStopEndsPlayback(t *testing.T) {
	l := &fakeLauncher{}
	svc := NewPlaybackService(l, nil)

	pathA := writeTempFile(t, "a.mp3")
	if err := svc.Play(pathA); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if svc.State() != StatePlaying {
		t.Fatalf("State() = %v after Play, want StatePlaying", svc.State())
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if svc.State() != StateIdle {
		t.Errorf("State() = %v after Stop, want StateIdle", svc.State())
	}
	if _, playing := svc.NowPlaying(); playing {
		t.Error("NowPlaying() reports playing after Stop")
	}
}

func TestPlayLaunchErrorStaysIdle(t *testing.T) {
	l := &fakeLauncher{launchErr: errors.New("player not found")}
	svc := NewPlaybackService(l, nil)

	pathA := writeTempFile(t, "a.mp3")
	if err := svc.Play(pathA); err == nil {
		t.Fatal("Play() error = nil, want launch error")
	}
	if svc.State() != StateIdle {
		t.Errorf("State() = %v after failed launch, want StateIdle", svc.State())
	}
}
