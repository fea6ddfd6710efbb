package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"cinema-scheduler-cli/model"
)

const showsKey = "cinema_shows"

// Store is a key-value persistence layer: one JSON file per key under a data
// directory.
type Store struct {
	dir string
}

// Open returns a store rooted at dir. When dir is empty the user config
// directory is used. The directory is created lazily on first write.
func Open(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "cinema-scheduler")
	}
	return &Store{dir: dir}, nil
}

// Dir reports the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Read unmarshals the value stored under key into out. The second return is
// false when no value exists.
func (s *Store) Read(key string, out any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Write stores v under key, replacing any previous value.
func (s *Store) Write(key string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), payload, 0o644)
}

// Remove deletes the value under key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadShows returns every stored show record. A missing or malformed entry is
// treated as an empty collection; malformed data is surfaced only to the log.
func (s *Store) LoadShows() []model.ShowRecord {
	var shows []model.ShowRecord
	ok, err := s.Read(showsKey, &shows)
	if err != nil {
		log.Error("show collection unreadable, treating as empty", "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	return shows
}

// Count reports the number of stored show records.
func (s *Store) Count() int {
	return len(s.LoadShows())
}

// AppendShow persists rec at the end of the collection in a single write.
func (s *Store) AppendShow(rec model.ShowRecord) error {
	return s.Write(showsKey, append(s.LoadShows(), rec))
}

// ClearShows empties the collection. Clearing an empty store is a no-op.
func (s *Store) ClearShows() error {
	return s.Remove(showsKey)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
