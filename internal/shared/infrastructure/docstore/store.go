// Package docstore persists small named JSON documents across restarts.
// Backends are selected by URL scheme; the sqlite, postgres and redis drivers
// register themselves from their own packages.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a document key has never been written.
var ErrNotFound = errors.New("document not found")

// Store reads and writes whole documents by key.
type Store interface {
	// Get returns the document stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Driver returns the backend type.
	Driver() Driver

	// Close releases backend resources.
	Close() error
}

// Watcher is implemented by stores that can report external writes.
type Watcher interface {
	// Watch calls fn with the key of every document changed outside this process
	// until ctx is cancelled.
	Watch(ctx context.Context, fn func(key string)) error
}

// Config holds document store configuration.
type Config struct {
	// Driver specifies the backend. If empty it is detected from URL.
	Driver Driver

	// URL is the store location: a directory, a .db file, or a postgres/redis/memory URL.
	URL string

	// MaxConns is the maximum number of pooled connections (PostgreSQL only).
	MaxConns int
}

// Factory opens a store for a driver.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var factories = map[Driver]Factory{
	DriverFile:   func(_ context.Context, cfg Config) (Store, error) { return NewFileStore(fileDir(cfg.URL)) },
	DriverMemory: func(context.Context, Config) (Store, error) { return NewMemoryStore(), nil },
}

// RegisterDriver registers the factory for a backend.
func RegisterDriver(driver Driver, fn Factory) {
	factories[driver] = fn
}

// Open creates a store based on configuration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}
	if !driver.IsValid() {
		return nil, fmt.Errorf("unsupported document store driver: %s", driver)
	}
	fn, ok := factories[driver]
	if !ok {
		return nil, fmt.Errorf("document store driver %s is not linked into this binary", driver)
	}
	return fn(ctx, cfg)
}

// DefaultDir returns the default directory for local state.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".priora")
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	return filepath.Join(DefaultDir(), "priora.db")
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func fileDir(rawURL string) string {
	if rawURL == "" {
		return DefaultDir()
	}
	return LocalPath(rawURL)
}
