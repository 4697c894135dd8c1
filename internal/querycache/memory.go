package querycache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	shardedcache "github.com/simp-lee/cache"
)

const memoryShards = 16

// MemoryStore implements Store in process. Entries live in a size-bounded
// sharded cache; counters are kept apart so eviction never rewinds a
// namespace version.
type MemoryStore struct {
	entries  shardedcache.CacheInterface
	counters sync.Map // string -> *atomic.Int64
}

// NewMemoryStore creates a MemoryStore holding about maxSize entries.
func NewMemoryStore(maxSize int) *MemoryStore {
	perShard := maxSize / memoryShards
	if perShard < 1 {
		perShard = 1
	}
	return &MemoryStore{
		entries: shardedcache.NewCache(shardedcache.Options{
			MaxSize:         perShard,
			ShardCount:      memoryShards,
			CleanupInterval: time.Minute,
		}),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c, ok := s.counters.Load(key); ok {
		return []byte(strconv.FormatInt(c.(*atomic.Int64).Load(), 10)), true, nil
	}
	v, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("memory get %s: unexpected value type %T", key, v)
	}
	return raw, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if _, ok := s.counters.Load(key); ok {
		return fmt.Errorf("memory set %s: key holds a counter", key)
	}
	s.entries.SetWithExpiration(key, value, ttl)
	return nil
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string) (int64, error) {
	c, _ := s.counters.LoadOrStore(key, new(atomic.Int64))
	return c.(*atomic.Int64).Add(1), nil
}

// Close stops the background cleanup of expired entries.
func (s *MemoryStore) Close() {
	s.entries.Close()
}
