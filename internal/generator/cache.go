package generator

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// Cache keeps recent results keyed by seed, kind and config fingerprint. A run is a
// pure function of those three, so a hit is always the room a fresh run would build.
// Cached results are shared and must not be mutated.
type Cache struct {
	store *ristretto.Cache[string, *Result]
	ttl   time.Duration
}

// NewCache creates a cache holding up to maxItems results for ttl each
func NewCache(maxItems int64, ttl time.Duration) (*Cache, error) {
	if maxItems < 1 {
		maxItems = 1
	}
	store, err := ristretto.NewCache(&ristretto.Config[string, *Result]{
		NumCounters:        maxItems * 10,
		MaxCost:            maxItems, // One unit per result
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Cache{store: store, ttl: ttl}, nil
}

// NewCacheFromConfig sizes the cache from the archive section
func NewCacheFromConfig(ac config.ArchiveConfig) (*Cache, error) {
	return NewCache(ac.CacheMaxItems, time.Duration(ac.CacheTTLSeconds)*time.Second)
}

// CacheKey builds the lookup key for one run
func CacheKey(seedText string, kind Kind, fingerprint string) string {
	return fingerprint + "|" + kind.String() + "|" + seedText
}

// Get returns a cached result, ok reports a hit
func (c *Cache) Get(cfg *config.Config, seedText string, kind Kind) (*Result, bool) {
	c.store.Wait()
	return c.store.Get(CacheKey(seedText, kind, cfg.Fingerprint()))
}

// Generate returns the cached result for the inputs or runs the generator and stores
// the outcome. hit reports whether the result came from the cache.
func (c *Cache) Generate(cfg *config.Config, seedText string, kind Kind) (res *Result, hit bool, err error) {
	key := CacheKey(seedText, kind, cfg.Fingerprint())

	c.store.Wait()
	if res, ok := c.store.Get(key); ok {
		logger.Debug("Result cache hit", "seed", seedText, "kind", kind.String())
		return res, true, nil
	}

	res, err = Generate(cfg, seedText, kind)
	if err != nil {
		return nil, false, err
	}
	c.store.SetWithTTL(key, res, 1, c.ttl)
	c.store.Wait()
	return res, false, nil
}

// Close stops the cache's background goroutines
func (c *Cache) Close() {
	c.store.Close()
}
