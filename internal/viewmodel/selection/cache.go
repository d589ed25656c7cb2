package selection

import (
	"fmt"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Cache is a small persistent key-value store
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// DiskCache keeps one file per key under a base directory
type DiskCache struct {
	d *diskv.Diskv
}

// NewDiskCache opens or creates a cache rooted at basePath
func NewDiskCache(basePath string) *DiskCache {
	return &DiskCache{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: flatTransform,
		InverseTransform:  func(pk *diskv.PathKey) string { return pk.FileName },
		CacheSizeMax:      64 * 1024,
	})}
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

// Get returns the stored value for key
func (c *DiskCache) Get(key string) (string, bool) {
	if !c.d.Has(key) {
		return "", false
	}
	value, err := c.d.Read(key)
	if err != nil {
		return "", false
	}
	return string(value), true
}

// Set stores value under key
func (c *DiskCache) Set(key, value string) error {
	if err := c.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key; a missing key is not an error
func (c *DiskCache) Delete(key string) error {
	if !c.d.Has(key) {
		return nil
	}
	if err := c.d.Erase(key); err != nil {
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}

// MemoryCache is a Cache that lives only as long as the process
type MemoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string]string)}
}

// Get returns the stored value for key
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores value under key
func (c *MemoryCache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

// Delete removes key
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}
