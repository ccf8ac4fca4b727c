// Package redis implements the document store on Redis string keys.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore"
)

func init() {
	docstore.RegisterDriver(docstore.DriverRedis, func(ctx context.Context, cfg docstore.Config) (docstore.Store, error) {
		return Open(ctx, cfg.URL)
	})
}

// KeyPrefix namespaces every document key.
const KeyPrefix = "priora:"

// Store keeps documents as Redis strings.
type Store struct {
	client goredis.UniversalClient
}

// Open parses url, connects and pings the server.
func Open(ctx context.Context, url string) (*Store, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return New(client), nil
}

// New wraps an existing client.
func New(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get returns the document stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Put replaces the document stored under key. Documents never expire.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, KeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Driver returns DriverRedis.
func (s *Store) Driver() docstore.Driver { return docstore.DriverRedis }

// Close closes the client.
func (s *Store) Close() error { return s.client.Close() }
