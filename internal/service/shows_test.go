package service

import (
	"testing"

	"github.com/deadair/tapedeck/internal/domain"
)

// listStore serves a fixed show list
type listStore struct {
	fakeStore
	shows []domain.ShowKey
}

func (f *listStore) DistinctShows() ([]domain.ShowKey, error) {
	return f.shows, nil
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	st := &listStore{shows: []domain.ShowKey{
		{Artist: "GratefulDead", Date: "1977-05-08"},
		{Artist: "Phish", Date: "1999-12-31"},
	}}
	svc := NewShowsService(st, nil)

	shows, err := svc.Filter("")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(shows) != 2 {
		t.Errorf("got %d shows, want 2", len(shows))
	}
}

func TestFilterMatchesFuzzily(t *testing.T) {
	st := &listStore{shows: []domain.ShowKey{
		{Artist: "GratefulDead", Date: "1977-05-08"},
		{Artist: "GratefulDead", Date: "1972-09-03"},
		{Artist: "Phish", Date: "1999-12-31"},
	}}
	svc := NewShowsService(st, nil)

	shows, err := svc.Filter("phish")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(shows) != 1 {
		t.Fatalf("got %d shows, want 1", len(shows))
	}
	if shows[0].Artist != "Phish" {
		t.Errorf("shows[0].Artist = %q, want Phish", shows[0].Artist)
	}
}

func TestFilterNoMatches(t *testing.T) {
	st := &listStore{shows: []domain.ShowKey{
		{Artist: "GratefulDead", Date: "1977-05-08"},
	}}
	svc := NewShowsService(st, nil)

	shows, err := svc.Filter("zzzz")
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(shows) != 0 {
		t.Errorf("got %d shows, want 0", len(shows))
	}
}
