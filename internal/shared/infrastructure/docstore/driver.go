package docstore

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Driver represents a document store backend type.
type Driver string

const (
	// DriverFile stores one JSON file per document in a directory.
	DriverFile Driver = "file"
	// DriverSQLite stores documents in a SQLite table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores documents in a PostgreSQL table.
	DriverPostgres Driver = "postgres"
	// DriverRedis stores documents as Redis string keys.
	DriverRedis Driver = "redis"
	// DriverMemory keeps documents in process memory.
	DriverMemory Driver = "memory"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverFile, DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
		return true
	default:
		return false
	}
}

// DetectDriver parses a store URL and returns the driver type.
// An empty URL selects the file store in the default directory.
func DetectDriver(rawURL string) Driver {
	switch {
	case rawURL == "":
		return DriverFile
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(rawURL, "redis://"), strings.HasPrefix(rawURL, "rediss://"):
		return DriverRedis
	case strings.HasPrefix(rawURL, "memory:"):
		return DriverMemory
	case strings.HasPrefix(rawURL, "sqlite:"):
		return DriverSQLite
	}

	switch filepath.Ext(strings.TrimPrefix(rawURL, "file://")) {
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite
	}
	return DriverFile
}

// LocalPath extracts a filesystem path from file:// and sqlite:// URLs or bare paths.
func LocalPath(rawURL string) string {
	for _, scheme := range []string{"file://", "sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(rawURL, scheme) {
			rest := strings.TrimPrefix(rawURL, scheme)
			if u, err := url.Parse("file://" + rest); err == nil && u.Path != "" {
				return u.Path
			}
			return rest
		}
	}
	return rawURL
}
