package war

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/rinkwar/internal/models"
)

// Fingerprint hashes a game set independently of record order. Any change to
// any record yields a different fingerprint.
func Fingerprint(records []models.StatRecord) string {
	encoded := make([][]byte, 0, len(records))
	for _, r := range records {
		// StatRecord holds only plain fields, so encoding cannot fail
		b, _ := json.Marshal(r)
		encoded = append(encoded, b)
	}
	sort.Slice(encoded, func(i, j int) bool {
		return string(encoded[i]) < string(encoded[j])
	})

	h := sha256.New()
	for _, b := range encoded {
		h.Write(b)
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TableCache keeps replacement tables keyed by game set fingerprint
type TableCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewTableCache creates a new replacement table cache
func NewTableCache(ttl time.Duration) *TableCache {
	return &TableCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

func cacheKey(fingerprint string, opts EstimateOptions) string {
	return fmt.Sprintf("%s:%g:%d", fingerprint, opts.Percentile, opts.MinGamesQualified)
}

// Get returns the cached table for a fingerprint and estimate options
func (tc *TableCache) Get(fingerprint string, opts EstimateOptions) (*ReplacementTable, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if v, found := tc.cache.Get(cacheKey(fingerprint, opts)); found {
		if table, ok := v.(*ReplacementTable); ok {
			tc.hitCount++
			return table, true
		}
	}
	tc.missCount++
	return nil, false
}

// Set stores a table under its own fingerprint and options
func (tc *TableCache) Set(table *ReplacementTable) {
	tc.cache.Set(cacheKey(table.fingerprint, table.opts), table, tc.ttl)
}

// GetOrEstimate returns the cached table for the game set or builds and caches it
func (tc *TableCache) GetOrEstimate(records []models.StatRecord, opts EstimateOptions) (*ReplacementTable, bool) {
	fingerprint := Fingerprint(records)
	if table, ok := tc.Get(fingerprint, opts); ok {
		return table, true
	}
	table := estimate(records, opts, fingerprint)
	tc.Set(table)
	return table, false
}

// Clear flushes the cache
func (tc *TableCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache.Flush()
	tc.hitCount = 0
	tc.missCount = 0
}

// Stats returns cache statistics
func (tc *TableCache) Stats() (hits, misses uint64) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.hitCount, tc.missCount
}

// ItemCount returns the number of cached tables
func (tc *TableCache) ItemCount() int {
	return tc.cache.ItemCount()
}
