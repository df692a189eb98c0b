package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

const sqliteSchema = `CREATE TABLE IF NOT EXISTS translations (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteCache is a disk-backed key/value cache stored in a single SQLite
// file. It survives restarts without an external server.
type SQLiteCache struct {
	db *sql.DB
}

// SQLiteConfig holds configuration for the SQLite cache.
type SQLiteConfig struct {
	Path string // Database file, or MemoryDSN (default: ".cache/gotcat.db")
}

// NewSQLiteCache opens (and if needed creates) the cache database.
func NewSQLiteCache(cfg SQLiteConfig) (*SQLiteCache, error) {
	if cfg.Path == "" {
		cfg.Path = ".cache/gotcat.db"
	}

	dsn := cfg.Path
	if cfg.Path != MemoryDSN {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		dsn = cfg.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create translations table: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get retrieves a value. Query failures are reported as misses.
func (c *SQLiteCache) Get(key string) (string, bool) {
	value, found, err := c.Fetch(key)
	if err != nil {
		return "", false
	}
	return value, found
}

// Fetch retrieves a value, separating a missing row from a failed query.
func (c *SQLiteCache) Fetch(key string) (string, bool, error) {
	var value string
	err := c.db.QueryRow(`SELECT value FROM translations WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts a single value.
func (c *SQLiteCache) Set(key string, value string) error {
	_, err := c.db.Exec(
		`INSERT INTO translations (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// SetMany upserts all values in one transaction.
func (c *SQLiteCache) SetMany(values map[string]string) (err error) {
	if len(values) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	stmt, err := tx.Prepare(
		`INSERT INTO translations (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for key, value := range values {
		if _, err = stmt.Exec(key, value); err != nil {
			return fmt.Errorf("insert %q: %w", key, err)
		}
	}

	return tx.Commit()
}

// Delete removes a single key.
func (c *SQLiteCache) Delete(key string) error {
	_, err := c.db.Exec(`DELETE FROM translations WHERE key = ?`, key)
	return err
}

// Len returns the number of stored keys.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&n)
	return n, err
}

// Clear removes every stored value.
func (c *SQLiteCache) Clear() error {
	_, err := c.db.Exec(`DELETE FROM translations`)
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Verify SQLiteCache implements Backend and Fetcher
var (
	_ Backend = (*SQLiteCache)(nil)
	_ Fetcher = (*SQLiteCache)(nil)
)
