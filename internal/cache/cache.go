// Package cache stores prune results on disk, keyed by a BLAKE3 digest of
// the input units and the options that shaped the run.
package cache

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/panbanda/jsprune/pkg/source"
)

// Cache provides file-based caching for prune results.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is the on-disk envelope of a cached result.
type Entry struct {
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New creates a cache rooted at dir. A disabled cache misses on every Get
// and discards every Set.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Key digests units, in order, together with the option strings. Any
// change to a unit's name, role or content, or to an option, yields a
// different key.
func Key(units []source.Unit, options ...string) string {
	h := blake3.New()
	var n [8]byte
	write := func(b []byte) {
		binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(b)
	}

	for _, u := range units {
		write([]byte(u.Name))
		if u.Library {
			write([]byte{1})
		} else {
			write([]byte{0})
		}
		write(u.Source)
	}
	write([]byte{0xff})
	for _, opt := range options {
		write([]byte(opt))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashBytes computes a BLAKE3 hash of data as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get decodes the entry stored under key into v. It reports false on a
// miss, an expired entry or an undecodable one; the latter two are
// invalidated.
func (c *Cache) Get(key string, v any) bool {
	if !c.enabled {
		return false
	}

	data, err := os.ReadFile(c.keyPath(key))
	if err != nil {
		return false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = c.Invalidate(key)
		return false
	}
	if entry.Key != key {
		return false
	}

	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		_ = c.Invalidate(key)
		return false
	}

	if err := json.Unmarshal(entry.Data, v); err != nil {
		_ = c.Invalidate(key)
		return false
	}
	return true
}

// Set stores v under key.
func (c *Cache) Set(key string, v any) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	entry, err := json.Marshal(Entry{Key: key, Timestamp: time.Now(), Data: data})
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(key), entry, 0600)
}

// Invalidate removes a cache entry. Removing a missing entry is not an
// error.
func (c *Cache) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	if err := os.Remove(c.keyPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *Cache) keyPath(key string) string {
	return filepath.Join(c.dir, HashBytes([]byte(key))[:32]+".json")
}

// Stats summarizes the cache directory.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest time.Time

	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		if oldest.IsZero() || info.ModTime().Before(oldest) {
			oldest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	return stats, nil
}
