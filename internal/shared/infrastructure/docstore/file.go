package docstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// FileStore keeps each document in <dir>/<key>.json and replaces it by atomic rename.
type FileStore struct {
	dir string

	mu      sync.Mutex
	written map[string][sha256.Size]byte
}

// NewFileStore creates a file store rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir, written: make(map[string][sha256.Size]byte)}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Get reads the document file for key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	// #nosec G304 -- keys are fixed document names chosen by the application
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put writes value to a temporary file and renames it over the document.
func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}

	s.mu.Lock()
	s.written[key] = sha256.Sum256(value)
	s.mu.Unlock()

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Driver returns DriverFile.
func (s *FileStore) Driver() Driver { return DriverFile }

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// Watch reports documents rewritten by another process. Events are debounced per key,
// and writes made through this store are recognised by content and skipped.
func (s *FileStore) Watch(ctx context.Context, fn func(key string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	const debounce = 100 * time.Millisecond
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			key, isDoc := s.keyOf(event.Name)
			if !isDoc {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[key] = time.Now()
			}

		case now := <-ticker.C:
			for key, at := range pending {
				if now.Sub(at) < debounce {
					continue
				}
				delete(pending, key)
				if s.isOwnWrite(key) {
					continue
				}
				fn(key)
			}

		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (s *FileStore) keyOf(name string) (string, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	return strings.TrimSuffix(base, fileExt), true
}

func (s *FileStore) isOwnWrite(key string) bool {
	// #nosec G304 -- path derived from a watched document name
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.written[key]
	return ok && sum == sha256.Sum256(data)
}
