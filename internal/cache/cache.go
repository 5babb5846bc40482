package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/todmy/report-checker/internal/contradiction"
)

// Cache defines the interface for analysis result caches
type Cache interface {
	Get(key string) (*contradiction.Report, bool)
	Add(key string, report *contradiction.Report)
	Purge()
}

// Analyzer produces a report for a block of text
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*contradiction.Report, error)
}

// GenerateCacheKey creates a cache key from the text being analyzed
func GenerateCacheKey(text string) string {
	h := sha256.New()
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// LRUCache keeps the most recently used reports in memory
type LRUCache struct {
	cache *lru.Cache[string, *contradiction.Report]
}

// NewLRUCache creates a cache holding up to size reports
func NewLRUCache(size int) (*LRUCache, error) {
	c, err := lru.New[string, *contradiction.Report](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache{cache: c}, nil
}

func (c *LRUCache) Get(key string) (*contradiction.Report, bool) {
	return c.cache.Get(key)
}

func (c *LRUCache) Add(key string, report *contradiction.Report) {
	c.cache.Add(key, report)
}

func (c *LRUCache) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached reports
func (c *LRUCache) Len() int {
	return c.cache.Len()
}

// NoOpCache is a cache that doesn't cache anything
type NoOpCache struct{}

func (NoOpCache) Get(key string) (*contradiction.Report, bool) { return nil, false }
func (NoOpCache) Add(key string, report *contradiction.Report) {}
func (NoOpCache) Purge()                                       {}

// CachedAnalyzer wraps an Analyzer with a result cache. Only successful
// analyses are cached. Purge the cache whenever the engine's patterns,
// lexicon or rules change.
type CachedAnalyzer struct {
	analyzer Analyzer
	cache    Cache
}

// NewCachedAnalyzer creates a new cached analyzer
func NewCachedAnalyzer(analyzer Analyzer, cache Cache) *CachedAnalyzer {
	if cache == nil {
		cache = NoOpCache{}
	}
	return &CachedAnalyzer{
		analyzer: analyzer,
		cache:    cache,
	}
}

// Analyze returns a cached report for text or computes and stores a new one
func (c *CachedAnalyzer) Analyze(ctx context.Context, text string) (*contradiction.Report, error) {
	key := GenerateCacheKey(contradiction.Normalize(text))
	if report, ok := c.cache.Get(key); ok {
		return report, nil
	}

	report, err := c.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, report)
	return report, nil
}

// Purge drops every cached report
func (c *CachedAnalyzer) Purge() {
	c.cache.Purge()
}
