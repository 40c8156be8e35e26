// Package cache implements the write-through metadata/chunk cache described
// in spec §4.4, backed by github.com/dgraph-io/ristretto/v2. It substitutes
// for the Redis cache named in the original configuration surface: same
// get/set/delete/exists contract, in-process instead of over the wire.
//
// Callers always write to the backing repository first and only then
// populate the cache; a cache miss falls back to the repository. Delete
// invalidates the cache entry before the repository delete is acknowledged,
// so a crash between the two never leaves a stale hit.
package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// Service is the cache layer in front of file/chunk metadata repositories.
// Values are opaque byte slices (typically JSON-encoded descriptors); Service
// does not interpret them.
type Service struct {
	store *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

// Config controls the underlying Ristretto instance.
type Config struct {
	// NumCounters sizes the admission-policy sketch; Ristretto recommends
	// roughly 10x the expected number of cached items.
	NumCounters int64
	// MaxCost caps total cached bytes. Cost is the length of each value.
	MaxCost int64
	// BufferItems is Ristretto's per-shard write-buffer size.
	BufferItems int64
	// TTL, if non-zero, is applied to every Set. Zero means entries never
	// expire on their own and rely solely on the admission policy.
	TTL time.Duration
}

// DefaultConfig returns sane defaults for a single-node deployment caching
// metadata descriptors (small values, on the order of a few hundred bytes).
func DefaultConfig() Config {
	return Config{
		NumCounters: 1e7,
		MaxCost:     1 << 28, // 256MB
		BufferItems: 64,
	}
}

// New builds a Service from cfg.
func New(cfg Config) (*Service, error) {
	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, &chunkerr.CacheError{Op: "new", Cause: err}
	}
	return &Service{store: store, ttl: cfg.TTL}, nil
}

// Get returns the cached value and true if present. A miss returns
// (nil, false, nil) — it is not an error.
func (s *Service) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := s.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores value under key, replacing any existing entry. Ristretto's
// admission policy may reject the write under memory pressure; that is not
// surfaced as an error since callers must always be able to fall back to the
// repository on the next Get.
func (s *Service) Set(_ context.Context, key string, value []byte) error {
	cost := int64(len(value))
	var ok bool
	if s.ttl > 0 {
		ok = s.store.SetWithTTL(key, value, cost, s.ttl)
	} else {
		ok = s.store.Set(key, value, cost)
	}
	if !ok {
		return nil
	}
	s.store.Wait()
	return nil
}

// Delete removes key from the cache. Deleting an absent key is a no-op.
func (s *Service) Delete(_ context.Context, key string) error {
	s.store.Del(key)
	return nil
}

// Exists reports whether key is currently cached. It performs a store Get
// and discards the value, so it counts toward access statistics like Get.
func (s *Service) Exists(_ context.Context, key string) bool {
	_, ok := s.store.Get(key)
	return ok
}

// GetOrLoad returns the cached value for key, calling load and populating
// the cache on a miss. load is expected to read through to the backing
// repository; GetOrLoad does not itself know what a repository is.
func (s *Service) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if val, ok, err := s.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return val, nil
	}

	val, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Set(ctx, key, val); err != nil {
		return nil, err
	}
	return val, nil
}

// Close releases the underlying Ristretto instance's background goroutines.
func (s *Service) Close() {
	s.store.Close()
}
