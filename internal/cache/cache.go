// Package cache implements a two-tier TTL cache: a fast in-memory map
// backed by a directory of one JSON file per entry.
//
// The memory tier is the source of truth for the current process; the disk
// tier is a best-effort durability layer. Disk write failures are logged
// and swallowed, never surfaced to callers. Expired entries are evicted
// lazily by the lookup that discovers them; Prune performs the full sweep.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// envelope wraps a payload with its insertion timestamp and TTL, both in
// epoch milliseconds.
type envelope[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
	TTL       int64 `json:"ttl"`
}

// expired reports whether the entry is past its TTL at now (epoch millis).
// An entry exactly at the boundary is not yet expired.
func (e envelope[T]) expired(now int64) bool {
	return now-e.Timestamp > e.TTL
}

// Stats describes the current cache population.
type Stats struct {
	MemoryEntries int   `json:"memoryEntries"`
	DiskEntries   int   `json:"diskEntries"`
	TotalSize     int64 `json:"totalSize"`
}

// Cache is a tiered TTL cache for payloads of type T. It is an
// independently constructible object; no global instance is required.
type Cache[T any] struct {
	dir    string
	logger *slog.Logger

	mu  sync.Mutex
	mem map[string]envelope[T]
}

// New creates a Cache persisting entries under dir, creating it if needed.
func New[T any](dir string, logger *slog.Logger) (*Cache[T], error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir: %w", err)
	}
	return &Cache[T]{
		dir:    dir,
		logger: logger,
		mem:    make(map[string]envelope[T]),
	}, nil
}

// Get returns the cached value for key, or ok=false on a miss. Memory is
// checked first; a valid disk entry is promoted into memory. An expired or
// corrupt entry found on either tier is deleted as a side effect.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	now := time.Now().UnixMilli()

	c.mu.Lock()
	e, ok := c.mem[key]
	if ok && !e.expired(now) {
		c.mu.Unlock()
		return e.Data, true
	}
	if ok {
		delete(c.mem, key)
	}
	c.mu.Unlock()

	if ok {
		// Memory entry expired; the disk copy carries the same timestamp.
		c.removeFile(key)
		return zero, false
	}

	file := filepath.Join(c.dir, fileKey(key))
	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("cache: disk read failed",
				slog.String("key", key), slog.String("error", err.Error()))
		}
		return zero, false
	}

	var disk envelope[T]
	if err := json.Unmarshal(data, &disk); err != nil {
		// Corrupt entry: treat like an expired one.
		c.deleteQuiet(file)
		return zero, false
	}
	if disk.expired(now) {
		c.deleteQuiet(file)
		return zero, false
	}

	// Promote into memory.
	c.mu.Lock()
	c.mem[key] = disk
	c.mu.Unlock()
	return disk.Data, true
}

// Set stores value under key with the given TTL. The memory write is
// unconditional; the disk write is best-effort and never fails the call.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	e := envelope[T]{
		Data:      value,
		Timestamp: time.Now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
	}

	c.mu.Lock()
	c.mem[key] = e
	c.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Warn("cache: marshal failed",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	file := filepath.Join(c.dir, fileKey(key))
	if err := os.WriteFile(file, data, 0o644); err != nil {
		c.logger.Warn("cache: disk write failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

// GetOrFetch returns the cached value for key or, on a miss, invokes fetch
// and stores its result with the given TTL.
func (c *Cache[T]) GetOrFetch(key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

// Remove deletes key from both tiers. Removing an absent key is a no-op.
func (c *Cache[T]) Remove(key string) {
	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()
	c.removeFile(key)
}

// Clear empties the memory tier and deletes the disk tier wholesale.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.mem = make(map[string]envelope[T])
	c.mu.Unlock()

	if err := os.RemoveAll(c.dir); err != nil {
		c.logger.Warn("cache: clear failed", slog.String("error", err.Error()))
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("cache: recreate dir failed", slog.String("error", err.Error()))
	}
}

// Prune removes every expired entry from both tiers and returns the number
// removed. Entries pruned from memory also have their disk file deleted, so
// a key cached in both tiers counts once. Corrupt disk entries count as
// expired. Entries added during the pass may be missed; Prune is meant to
// be driven periodically by an external scheduler.
func (c *Cache[T]) Prune() int {
	now := time.Now().UnixMilli()
	removed := 0

	c.mu.Lock()
	var stale []string
	for key, e := range c.mem {
		if e.expired(now) {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		delete(c.mem, key)
	}
	c.mu.Unlock()

	for _, key := range stale {
		c.removeFile(key)
		removed++
	}

	// Sweep remaining disk entries (recursively; subdirectories may exist).
	err := filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return walkErr
		}
		data, err := os.ReadFile(p)
		if err != nil {
			c.logger.Warn("cache: prune read failed",
				slog.String("file", p), slog.String("error", err.Error()))
			return nil
		}
		var e envelope[json.RawMessage]
		if err := json.Unmarshal(data, &e); err != nil {
			c.deleteQuiet(p)
			removed++
			return nil
		}
		if e.expired(now) {
			c.deleteQuiet(p)
			removed++
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("cache: prune walk failed", slog.String("error", err.Error()))
	}

	return removed
}

// Stats reports entry counts per tier and the total disk size in bytes.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	st := Stats{MemoryEntries: len(c.mem)}
	c.mu.Unlock()

	_ = filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return walkErr
		}
		if info, err := d.Info(); err == nil {
			st.DiskEntries++
			st.TotalSize += info.Size()
		}
		return nil
	})
	return st
}

// removeFile deletes the disk file for key; a missing file is success.
func (c *Cache[T]) removeFile(key string) {
	c.deleteQuiet(filepath.Join(c.dir, fileKey(key)))
}

func (c *Cache[T]) deleteQuiet(file string) {
	if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("cache: delete failed",
			slog.String("file", file), slog.String("error", err.Error()))
	}
}
