package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store keeps the parsed assortment in memory and reparses only after a
// download or when the cache file changes. It is safe for concurrent use;
// concurrent callers share a single refresh.
type Store struct {
	cache *Cache
	load  singleflight.Group

	mu       sync.RWMutex
	products []Product
	modTime  time.Time
}

// NewStore creates a store backed by cache.
func NewStore(cache *Cache) *Store {
	return &Store{cache: cache}
}

// Products returns the current assortment, refreshing the cache file first
// when it is stale.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	v, err, _ := s.load.Do("products", func() (any, error) {
		return s.reload(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

func (s *Store) reload(ctx context.Context) ([]Product, error) {
	downloaded, err := s.cache.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(s.cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog cache: %w", err)
	}

	s.mu.RLock()
	if !downloaded && s.products != nil && info.ModTime().Equal(s.modTime) {
		products := s.products
		s.mu.RUnlock()
		return products, nil
	}
	s.mu.RUnlock()

	f, err := os.Open(s.cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog cache: %w", err)
	}
	defer func() { _ = f.Close() }()

	products, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}

	s.mu.Lock()
	s.products = products
	s.modTime = info.ModTime()
	s.mu.Unlock()
	return products, nil
}

// Search runs queries against the current assortment.
func (s *Store) Search(ctx context.Context, queries []string) ([]Match, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Search(products, queries)
}

// Size returns the number of products held in memory.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// Clear drops the parsed products; the next call reparses the file.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = nil
	s.modTime = time.Time{}
}
