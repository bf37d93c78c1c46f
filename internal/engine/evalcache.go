package engine

import (
	"sync/atomic"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"

	"github.com/hailam/chessai/internal/board"
)

// blackKey separates the two perspectives of one position in the cache.
const blackKey uint64 = 0x9E3779B97F4A7C15

// EvalCache memoizes Evaluate by board hash and perspective.
// It is safe for concurrent use.
type EvalCache struct {
	cache  *ristretto.Cache[uint64, float64]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewEvalCache creates a cache holding up to entries evaluations.
func NewEvalCache(entries int64) (*EvalCache, error) {
	if entries <= 0 {
		return nil, errors.Errorf("eval cache size must be positive, got %d", entries)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, float64]{
		NumCounters:        entries * 10,
		MaxCost:            entries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create eval cache")
	}
	return &EvalCache{cache: cache}, nil
}

func cacheKey(b *board.Board, perspective board.Color) uint64 {
	key := b.Hash()
	if perspective == board.Black {
		key ^= blackKey
	}
	return key
}

// Evaluate returns the cached score for b, computing and storing it on a miss.
func (ec *EvalCache) Evaluate(b *board.Board, perspective board.Color) float64 {
	key := cacheKey(b, perspective)
	if score, ok := ec.cache.Get(key); ok {
		ec.hits.Add(1)
		return score
	}

	ec.misses.Add(1)
	score := Evaluate(b, perspective)
	ec.cache.Set(key, score, 1)
	return score
}

// Wait blocks until pending writes are visible to Get.
func (ec *EvalCache) Wait() {
	ec.cache.Wait()
}

// HitRate returns the cache hit rate as a percentage.
func (ec *EvalCache) HitRate() float64 {
	hits, misses := ec.hits.Load(), ec.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Stats returns the hit and miss counters.
func (ec *EvalCache) Stats() (hits, misses uint64) {
	return ec.hits.Load(), ec.misses.Load()
}

// Clear drops every entry and resets the counters.
func (ec *EvalCache) Clear() {
	ec.cache.Clear()
	ec.hits.Store(0)
	ec.misses.Store(0)
}

// Close releases the cache's background goroutines.
func (ec *EvalCache) Close() {
	ec.cache.Close()
}
