package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/courtbook/internal/storage"
)

// StateFile is the name of the file holding every key
const StateFile = "session.json"

// Storage keeps all keys in one private JSON file under a directory. A Put
// replaces the whole file at once, so keys written together are always read
// back together.
type Storage struct {
	dir string
	mu  sync.Mutex
}

// New creates a file storage rooted at dir. The directory is created lazily.
func New(dir string) *Storage {
	return &Storage{dir: dir}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Dir returns the directory holding the state file
func (s *Storage) Dir() string {
	return s.dir
}

// Path returns the state file's location
func (s *Storage) Path() string {
	return filepath.Join(s.dir, StateFile)
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

// Put merges entries into the state and writes it to a temp file that is
// renamed into place, so a crash leaves either the old state or the new one.
func (s *Storage) Put(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		// Unreadable state is replaced outright
		current = map[string]string{}
	}
	for key, value := range entries {
		current[key] = value
	}
	return s.write(current)
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return s.remove()
	}
	if len(current) == 0 {
		return nil
	}
	for _, key := range keys {
		delete(current, key)
	}
	if len(current) == 0 {
		return s.remove()
	}
	return s.write(current)
}

// read loads the state. A missing file is an empty state.
func (s *Storage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("malformed state file: %w", err)
	}
	return entries, nil
}

func (s *Storage) write(entries map[string]string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	path := s.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *Storage) remove() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
