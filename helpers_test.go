package gotcat

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ZaguanLabs/gotcat/cache"
	"github.com/ZaguanLabs/gotcat/catalog"
)

// sourceTime is the modification time given to copied test catalogs, well in
// the past so snapshots written during a test are strictly newer.
var sourceTime = time.Now().Add(-time.Hour).Truncate(time.Second)

// copyDomain copies testdata/<name> into a temp directory and backdates its
// catalogs to sourceTime.
func copyDomain(t *testing.T, name string) string {
	t.Helper()

	src := filepath.Join("testdata", name)
	dst := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dst, e.Name())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		touch(t, path, sourceTime)
	}
	return dst
}

// touch sets a file's modification time.
func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

// rewrite replaces a catalog's content and sets its modification time.
func rewrite(t *testing.T, path, content string, modTime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	touch(t, path, modTime)
}

// countingReader counts source parses.
type countingReader struct {
	mu    sync.Mutex
	inner catalog.Reader
	reads int
}

func newCountingReader() *countingReader {
	return &countingReader{inner: catalog.NewPOReader()}
}

func (r *countingReader) ReadFile(path string) ([]catalog.Entry, error) {
	r.mu.Lock()
	r.reads++
	r.mu.Unlock()
	return r.inner.ReadFile(path)
}

func (r *countingReader) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

// failingBackend rejects every batch write.
type failingBackend struct {
	data map[string]string
}

func (b *failingBackend) Get(key string) (string, bool) {
	v, ok := b.data[key]
	return v, ok
}

func (b *failingBackend) Set(key, value string) error {
	b.data[key] = value
	return nil
}

func (b *failingBackend) SetMany(map[string]string) error {
	return os.ErrPermission
}

func (b *failingBackend) Clear() error {
	b.data = map[string]string{}
	return nil
}

// unreadableBackend fails every read while broken is set, reporting the
// failure through Fetch.
type unreadableBackend struct {
	*cache.InMemoryCache
	broken bool
	fetches int
}

func (b *unreadableBackend) Get(key string) (string, bool) {
	if b.broken {
		return "", false
	}
	return b.InMemoryCache.Get(key)
}

func (b *unreadableBackend) Fetch(key string) (string, bool, error) {
	b.fetches++
	if b.broken {
		return "", false, errors.New("read timeout")
	}
	value, found := b.InMemoryCache.Get(key)
	return value, found, nil
}
