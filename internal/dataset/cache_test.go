package dataset

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingLoader(calls *atomic.Int64) LoadFunc {
	return func(path string) (*Dataset, error) {
		calls.Add(1)
		return &Dataset{Name: DisplayName(path), Path: path}, nil
	}
}

func TestCache_MemoizesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sussex_scored.gpkg")
	writeFile(t, path, "payload")

	var calls atomic.Int64
	cache := NewCache(countingLoader(&calls))

	first, err := cache.Get(path)
	require.NoError(t, err)
	second, err := cache.Get(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), calls.Load())

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_ReloadsWhenFingerprintChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sussex_scored.gpkg")
	writeFile(t, path, "v1")

	var calls atomic.Int64
	cache := NewCache(countingLoader(&calls))

	_, err := cache.Get(path)
	require.NoError(t, err)

	// A different size is a different fingerprint even if mtime
	// granularity hides the rewrite.
	writeFile(t, path, "v2 with more bytes")
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Second)))

	_, err = cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_MissingFile(t *testing.T) {
	var calls atomic.Int64
	cache := NewCache(countingLoader(&calls))

	_, err := cache.Get(filepath.Join(t.TempDir(), "absent.gpkg"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.Equal(t, int64(0), calls.Load())
}

func TestCache_PropagatesLoaderError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad_scored.gpkg")
	writeFile(t, path, "x")

	cache := NewCache(func(string) (*Dataset, error) {
		return nil, eris.Wrap(ErrFormat, "boom")
	})

	_, err := cache.Get(path)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrFormat))
}

func TestCache_Invalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sussex_scored.gpkg")
	writeFile(t, path, "payload")

	var calls atomic.Int64
	cache := NewCache(countingLoader(&calls))

	_, err := cache.Get(path)
	require.NoError(t, err)
	cache.Invalidate(path)
	_, err = cache.Get(path)
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sussex_scored.gpkg")
	writeFile(t, path, "payload")

	var calls atomic.Int64
	cache := NewCache(countingLoader(&calls))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := cache.Get(path)
			assert.NoError(t, err)
			assert.NotNil(t, ds)
		}()
	}
	wg.Wait()

	// singleflight collapses concurrent loads; later calls hit the cache.
	assert.LessOrEqual(t, calls.Load(), int64(2))
}
