package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Cache keeps the assortment document in a local file.
type Cache struct {
	Path    string
	TTL     time.Duration
	Fetcher Fetcher

	now func() time.Time
}

// NewCache creates a cache at path refreshed through fetcher when older than ttl.
func NewCache(path string, ttl time.Duration, fetcher Fetcher) *Cache {
	return &Cache{
		Path:    path,
		TTL:     ttl,
		Fetcher: fetcher,
		now:     time.Now,
	}
}

// Stale reports whether the cache file is missing or older than the TTL.
func (c *Cache) Stale() (bool, error) {
	info, err := os.Stat(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat catalog cache: %w", err)
	}
	return c.clock().Sub(info.ModTime()) > c.TTL, nil
}

// Ensure downloads the document when the cache is stale.
// It reports whether a download happened.
func (c *Cache) Ensure(ctx context.Context) (bool, error) {
	stale, err := c.Stale()
	if err != nil {
		return false, err
	}
	if !stale {
		return false, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Refresh downloads the document unconditionally. The previous file is
// only replaced once the download completes.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.Fetcher == nil {
		return errors.New("catalog cache has no fetcher")
	}

	body, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create catalog cache: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.Path); err != nil {
		return fmt.Errorf("failed to replace catalog cache: %w", err)
	}
	return nil
}

// Load ensures the cache is fresh and parses it.
func (c *Cache) Load(ctx context.Context) ([]Product, error) {
	if _, err := c.Ensure(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog cache: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

func (c *Cache) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
