package store

import (
	"os"
	"path/filepath"
	"testing"

	"cinema-scheduler-cli/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return s
}

func TestAppendShow_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	if got := s.LoadShows(); len(got) != 0 {
		t.Fatalf("expected empty store, got %+v", got)
	}

	if err := s.AppendShow(model.ShowRecord{ShowID: 1, MovieTitle: "Dune"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.AppendShow(model.ShowRecord{ShowID: 2, MovieTitle: "Avatar 3"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	shows := s.LoadShows()
	if len(shows) != 2 {
		t.Fatalf("expected 2 shows, got %d", len(shows))
	}
	if shows[0].MovieTitle != "Dune" || shows[1].MovieTitle != "Avatar 3" {
		t.Fatalf("unexpected order: %+v", shows)
	}
	if s.Count() != 2 {
		t.Fatalf("expected count 2, got %d", s.Count())
	}
}

func TestClearShows_Idempotent(t *testing.T) {
	s := newTestStore(t)

	// clearing an empty store is fine
	if err := s.ClearShows(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := s.AppendShow(model.ShowRecord{ShowID: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.ClearShows(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.ClearShows(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got := s.LoadShows(); len(got) != 0 {
		t.Fatalf("expected empty store after clear, got %+v", got)
	}
}

func TestLoadShows_MalformedEntryIsEmpty(t *testing.T) {
	s := newTestStore(t)

	path := filepath.Join(s.Dir(), "cinema_shows.json")
	if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if got := s.LoadShows(); len(got) != 0 {
		t.Fatalf("expected malformed entry to read as empty, got %+v", got)
	}
}

func TestKeyValueContract(t *testing.T) {
	s := newTestStore(t)

	var out map[string]string
	ok, err := s.Read("settings", &out)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if ok {
		t.Fatal("expected missing key to report not found")
	}

	if err := s.Write("settings", map[string]string{"theme": "dark"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	ok, err = s.Read("settings", &out)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !ok || out["theme"] != "dark" {
		t.Fatalf("expected stored value back, got ok=%v out=%+v", ok, out)
	}

	if err := s.Remove("settings"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := s.Remove("settings"); err != nil {
		t.Fatalf("expected removing absent key to be fine, got %v", err)
	}
}
