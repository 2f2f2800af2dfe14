package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/deadair/tapedeck/internal/domain"
)

func openTestStore(t *testing.T) *SongStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "songs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(title string) domain.SongRecord {
	return domain.SongRecord{
		Identifier: "gd1977-05-08.sbd",
		Title:      title,
		Artist:     "GratefulDead",
		Date:       "1977-05-08",
		FilePath:   "/music/gd1977-05-08.sbd/" + title,
	}
}

func TestInsertIdempotent(t *testing.T) {
	s := openTestStore(t)

	rec := testRecord("track1.mp3")
	if err := s.Insert(rec); err != nil {
		t.Fatalf("first Insert() error = %v", err)
	}
	if err := s.Insert(rec); err != nil {
		t.Fatalf("second Insert() error = %v", err)
	}

	paths, err := s.Lookup(rec.Artist, rec.Date)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("got %d records after duplicate insert, want 1", len(paths))
	}
}

func TestInsertSameItemDifferentTitles(t *testing.T) {
	s := openTestStore(t)

	// One archive item holds many tracks; each gets its own record
	if err := s.Insert(testRecord("track1.mp3")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.Insert(testRecord("track2.mp3")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	paths, err := s.Lookup("GratefulDead", "1977-05-08")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("got %d records, want 2", len(paths))
	}
}

func TestLookupMiss(t *testing.T) {
	s := openTestStore(t)

	paths, err := s.Lookup("Phish", "1999-12-31")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("got %d paths on miss, want 0", len(paths))
	}
}

func TestLookupExactPairOnly(t *testing.T) {
	s := openTestStore(t)

	if err := s.Insert(testRecord("track1.mp3")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	tests := []struct {
		name   string
		artist string
		date   string
		want   int
	}{
		{"exact match", "GratefulDead", "1977-05-08", 1},
		{"wrong date", "GratefulDead", "1977-05-09", 0},
		{"wrong artist", "Phish", "1977-05-08", 0},
		{"case differs", "gratefuldead", "1977-05-08", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := s.Lookup(tt.artist, tt.date)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if len(paths) != tt.want {
				t.Errorf("got %d paths, want %d", len(paths), tt.want)
			}
		})
	}
}

func TestDistinctShowsOrdered(t *testing.T) {
	s := openTestStore(t)

	records := []domain.SongRecord{
		{Identifier: "b1", Title: "t1.mp3", Artist: "B", Date: "2020-01-01", FilePath: "/x/b1/t1.mp3"},
		{Identifier: "a2", Title: "t1.mp3", Artist: "A", Date: "2020-06-01", FilePath: "/x/a2/t1.mp3"},
		{Identifier: "a1", Title: "t1.mp3", Artist: "A", Date: "2020-01-01", FilePath: "/x/a1/t1.mp3"},
		{Identifier: "a1", Title: "t2.mp3", Artist: "A", Date: "2020-01-01", FilePath: "/x/a1/t2.mp3"},
	}
	for _, rec := range records {
		if err := s.Insert(rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	shows, err := s.DistinctShows()
	if err != nil {
		t.Fatalf("DistinctShows() error = %v", err)
	}

	want := []domain.ShowKey{
		{Artist: "A", Date: "2020-01-01"},
		{Artist: "A", Date: "2020-06-01"},
		{Artist: "B", Date: "2020-01-01"},
	}
	if len(shows) != len(want) {
		t.Fatalf("got %d shows, want %d", len(shows), len(want))
	}
	for i := range want {
		if shows[i] != want[i] {
			t.Errorf("shows[%d] = %v, want %v", i, shows[i], want[i])
		}
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Insert(testRecord("track1.mp3")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	paths, err := s.Lookup("GratefulDead", "1977-05-08")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("got %d paths after reopen, want 1", len(paths))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "songs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if err := s.Insert(testRecord("track1.mp3")); !errors.Is(err, domain.ErrStoreClosed) {
		t.Errorf("Insert() after close error = %v, want ErrStoreClosed", err)
	}
	if _, err := s.Lookup("GratefulDead", "1977-05-08"); !errors.Is(err, domain.ErrStoreClosed) {
		t.Errorf("Lookup() after close error = %v, want ErrStoreClosed", err)
	}
}
