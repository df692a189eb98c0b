package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"
)

// SnapshotExtension is the file extension of compiled catalog snapshots.
const SnapshotExtension = ".json"

// EncodeError reports a catalog map that cannot be encoded into a snapshot.
type EncodeError struct {
	Key   string
	Cause error
}

func (e *EncodeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("encoding snapshot value for %q: %v", e.Key, e.Cause)
	}
	return fmt.Sprintf("encoding snapshot: %v", e.Cause)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// errInvalidUTF8 is the cause of an EncodeError for a non UTF-8 value.
var errInvalidUTF8 = errors.New("invalid UTF-8")

// SnapshotStore persists compiled catalogs as flat JSON objects under
// <dir>/<locale>/<domain>.json. Writes go to a temp file that is renamed into
// place, so readers never observe a partial snapshot.
type SnapshotStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewSnapshotStore creates a store rooted at dir.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}
}

// Dir returns the root directory of the store.
func (s *SnapshotStore) Dir() string {
	return s.dir
}

// Path returns the snapshot file for a locale and domain.
func (s *SnapshotStore) Path(locale, domain string) string {
	return filepath.Join(s.dir, locale, domain+SnapshotExtension)
}

func (s *SnapshotStore) lock(path string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[path]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[path] = l
	}
	return l
}

// ModTime returns the modification time of a snapshot and whether it exists.
func (s *SnapshotStore) ModTime(locale, domain string) (time.Time, bool) {
	info, err := os.Stat(s.Path(locale, domain))
	if err != nil || info.IsDir() {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Read loads a snapshot.
func (s *SnapshotStore) Read(locale, domain string) (map[string]string, error) {
	path := s.Path(locale, domain)
	l := s.lock(path)
	l.RLock()
	defer l.RUnlock()

	data, err := os.ReadFile(path) // #nosec G304 - path is built from the store root
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return values, nil
}

// Encode serializes values into snapshot form. Values must be valid UTF-8.
func Encode(values map[string]string) ([]byte, error) {
	for key, value := range values {
		if !utf8.ValidString(value) || !utf8.ValidString(key) {
			return nil, &EncodeError{Key: key, Cause: errInvalidUTF8}
		}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, &EncodeError{Cause: err}
	}
	return data, nil
}

// Write encodes values and atomically replaces the snapshot. Encoding
// failures are returned as *EncodeError before anything touches the disk.
func (s *SnapshotStore) Write(locale, domain string, values map[string]string) error {
	data, err := Encode(values)
	if err != nil {
		return err
	}

	path := s.Path(locale, domain)
	l := s.lock(path)
	l.Lock()
	defer l.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) // Clean up temp file
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}

	return nil
}
