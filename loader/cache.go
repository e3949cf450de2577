package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"
)

// Cache stores fetched documents by key. Only input documents are ever
// cached, never plot state.
type Cache interface {
	Get(key []byte) ([]byte, bool)
	Put(key, data []byte) error
	Close() error
}

// CacheKey hashes a source string into a fixed 8 byte key.
func CacheKey(src string) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], xxh3.HashString(src))
	return key[:]
}

// PebbleCache is a Cache backed by a pebble database on disk.
type PebbleCache struct {
	db    *pebble.DB
	cache *pebble.Cache
}

// OpenPebbleCache opens (creating if needed) a cache directory. sizeBytes
// sizes pebble's block cache; zero leaves pebble's default.
func OpenPebbleCache(path string, sizeBytes int64) (*PebbleCache, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("dataset cache: ensure directory: %w", err)
	}
	opts := &pebble.Options{}
	if sizeBytes > 0 {
		opts.Cache = pebble.NewCache(sizeBytes)
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		if opts.Cache != nil {
			opts.Cache.Unref()
		}
		return nil, fmt.Errorf("dataset cache: open: %w", err)
	}
	slog.Debug("dataset cache opened", "dir", path, "blockCache", humanize.IBytes(uint64(max(sizeBytes, 0))))
	return &PebbleCache{db: db, cache: opts.Cache}, nil
}

func (c *PebbleCache) Get(key []byte) ([]byte, bool) {
	data, closer, err := c.db.Get(key)
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			slog.Warn("dataset cache read failed", "error", err)
		}
		return nil, false
	}
	defer closer.Close()
	return append([]byte(nil), data...), true
}

func (c *PebbleCache) Put(key, data []byte) error {
	return c.db.Set(key, data, pebble.Sync)
}

func (c *PebbleCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	if c.cache != nil {
		c.cache.Unref()
		c.cache = nil
	}
	c.db = nil
	return err
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(key []byte) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[string(key)]
	return data, ok
}

func (c *MemoryCache) Put(key, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[string(key)] = append([]byte(nil), data...)
	return nil
}

func (c *MemoryCache) Close() error { return nil }
