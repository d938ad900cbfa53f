package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uiimport/pkg/parser"
)

// ResultCache memoizes transform results by dialect and content hash. The
// rules are fixed for the lifetime of a Pipeline, so they are not part of the
// key. A nil *ResultCache is a disabled cache.
type ResultCache struct {
	cache *lru.Cache[string, *FileResult]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// CacheStats reports result cache usage.
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewResultCache creates a cache of at most size entries. size <= 0 returns
// a nil (disabled) cache.
func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	rc := &ResultCache{}
	cache, err := lru.NewWithEvict(size, func(string, *FileResult) {
		rc.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	rc.cache = cache
	return rc, nil
}

func resultKey(dialect parser.Dialect, src []byte) string {
	sum := sha256.Sum256(src)
	return dialect.String() + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for key. Callers must copy before modifying.
func (rc *ResultCache) Get(key string) (*FileResult, bool) {
	if rc == nil {
		return nil, false
	}
	res, ok := rc.cache.Get(key)
	if ok {
		rc.hits.Add(1)
	} else {
		rc.misses.Add(1)
	}
	return res, ok
}

// Add stores res under key.
func (rc *ResultCache) Add(key string, res *FileResult) {
	if rc == nil {
		return
	}
	rc.cache.Add(key, res)
}

// Purge drops every entry.
func (rc *ResultCache) Purge() {
	if rc == nil {
		return
	}
	rc.cache.Purge()
}

// Stats returns usage counters.
func (rc *ResultCache) Stats() CacheStats {
	if rc == nil {
		return CacheStats{}
	}
	return CacheStats{
		Entries:   rc.cache.Len(),
		Hits:      rc.hits.Load(),
		Misses:    rc.misses.Load(),
		Evictions: rc.evictions.Load(),
	}
}
