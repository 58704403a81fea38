package dataset

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/singleflight"
)

// LoadFunc loads a dataset from a path. Injected so the cache can be
// exercised without real vector files.
type LoadFunc func(path string) (*Dataset, error)

// Cache memoizes dataset loads by path. Entries carry a content
// fingerprint (mtime + size), so a changed file on disk invalidates its
// entry instead of serving stale parcels. Concurrent loads of the same
// path are collapsed into one read via singleflight.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	load    LoadFunc
	group   singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheEntry struct {
	ds      *Dataset
	modTime time.Time
	size    int64
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewCache creates a dataset cache around the given loader.
func NewCache(load LoadFunc) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		load:    load,
	}
}

// Get returns the dataset at path, loading it on first use or when the
// file's fingerprint has changed since it was cached.
func (c *Cache) Get(path string) (*Dataset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eris.Wrap(ErrNotFound, path)
		}
		return nil, eris.Wrapf(err, "dataset: stat %s", path)
	}

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok &&
		entry.modTime.Equal(fi.ModTime()) && entry.size == fi.Size() {
		c.mu.Unlock()
		c.hits.Add(1)
		return entry.ds, nil
	}
	c.mu.Unlock()
	c.misses.Add(1)

	v, err, _ := c.group.Do(path, func() (any, error) {
		ds, err := c.load(path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[path] = &cacheEntry{ds: ds, modTime: fi.ModTime(), size: fi.Size()}
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached entry for a path, if any.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Stats returns cache performance statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	entries := len(c.entries)
	c.mu.Unlock()

	return CacheStats{
		Entries: entries,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
