// Package cache keeps parsed samples of CSV histories on disk so unchanged
// sources are not re-parsed on every render.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/encukou/portingchart/internal/core/model"
	"github.com/encukou/portingchart/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonSettings
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonSettings:
		return "settings"
	case MissReasonNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Entry is what is stored per source file.
type Entry struct {
	Source   string         `json:"source"`
	Settings string         `json:"settings"`
	State    util.FileState `json:"state"`
	Samples  []model.Sample `json:"samples"`
}

type CacheResult struct {
	Samples    []model.Sample
	Found      bool
	MissReason CacheMissReason
}

// Cache is implemented by FileCache.
type Cache interface {
	Get(source, settings string) CacheResult
	Set(source, settings string, samples []model.Sample) error
	Clear() error
}

// ParseFunc parses a source file on a cache miss.
type ParseFunc func(path string) ([]model.Sample, error)

// FileCache stores one JSON document per source under baseDir with a memory
// layer in front.
type FileCache struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

// key derives the cache file name from the absolute source path.
func key(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:8])
}

func (c *FileCache) path(source string) string {
	return filepath.Join(c.baseDir, key(source)+".json")
}

// Get returns the cached samples of source if the file is unchanged and was
// parsed with the same settings.
func (c *FileCache) Get(source, settings string) CacheResult {
	c.mu.RLock()
	entry, ok := c.memoryCache[key(source)]
	c.mu.RUnlock()

	if !ok {
		var reason CacheMissReason
		entry, reason = c.readFile(source)
		if entry == nil {
			return CacheResult{MissReason: reason}
		}
	}

	if reason := validate(entry, settings); reason != MissReasonNone {
		c.mu.Lock()
		delete(c.memoryCache, key(source))
		c.mu.Unlock()
		return CacheResult{MissReason: reason}
	}

	c.mu.Lock()
	c.memoryCache[key(source)] = entry
	c.mu.Unlock()
	return CacheResult{Samples: entry.Samples, Found: true}
}

func (c *FileCache) readFile(source string) (*Entry, CacheMissReason) {
	data, err := os.ReadFile(c.path(source))
	if err != nil {
		return nil, MissReasonNotFound
	}
	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		util.LogDebugf("Unreadable cache file for %s: %v", source, err)
		return nil, MissReasonError
	}
	return &entry, MissReasonNone
}

func validate(entry *Entry, settings string) CacheMissReason {
	if entry.Settings != settings {
		util.LogDebug("Cache invalidated: settings changed", util.F("source", entry.Source))
		return MissReasonSettings
	}

	current, err := util.StatFile(entry.Source)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: %v", entry.Source, err)
		return MissReasonError
	}

	cached := entry.State
	switch {
	case current.Inode != cached.Inode:
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)", entry.Source, cached.Inode, current.Inode)
		return MissReasonInode
	case current.Size != cached.Size:
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)", entry.Source, cached.Size, current.Size)
		return MissReasonSize
	case current.ModTime != cached.ModTime:
		util.LogDebugf("Cache invalidated for %s: modtime changed", entry.Source)
		return MissReasonModTime
	case current.Fingerprint != cached.Fingerprint:
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)", entry.Source, cached.Fingerprint, current.Fingerprint)
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// Set records samples parsed from source under settings.
func (c *FileCache) Set(source, settings string, samples []model.Sample) error {
	state, err := util.StatFile(source)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		return err
	}

	entry := &Entry{
		Source:   abs,
		Settings: settings,
		State:    state,
		Samples:  samples,
	}
	data, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := c.path(source) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.path(source)); err != nil {
		return err
	}
	c.memoryCache[key(source)] = entry
	return nil
}

// Load returns the samples of source from the cache, parsing and storing them
// on a miss. Cache write failures are logged, not returned.
func (c *FileCache) Load(source, settings string, parse ParseFunc) ([]model.Sample, error) {
	res := c.Get(source, settings)
	if res.Found {
		util.LogDebug("Cache hit", util.F("source", source), util.F("samples", len(res.Samples)))
		return res.Samples, nil
	}
	util.LogDebug("Cache miss", util.F("source", source), util.F("reason", res.MissReason.String()))

	samples, err := parse(source)
	if err != nil {
		return nil, err
	}
	if err := c.Set(source, settings, samples); err != nil {
		util.LogWarnf("Failed to cache %s: %v", source, err)
	}
	return samples, nil
}

// Clear drops every entry from memory and disk.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	matches, err := filepath.Glob(filepath.Join(c.baseDir, "*.json"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
