// Package querycache is a read-through result cache in front of a
// specification executor. Entries are keyed by the specification's cache key
// and a namespace version; bumping the version invalidates every entry of the
// namespace at once and leaves stale entries to expire.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/simp-lee/gospec/internal/spec"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Source is the uncached query surface being wrapped.
type Source[T any] interface {
	FindOne(ctx context.Context, s spec.Specification, attrs ...string) (*T, error)
	FindAll(ctx context.Context, s spec.Specification, attrs ...string) (*spec.Page[T], error)
	Exists(ctx context.Context, s spec.Specification) (bool, error)
}

// Cached wraps a Source with a read-through cache. Store failures never fail
// a query: they are logged at warn and the query goes to the source.
type Cached[T any] struct {
	next      Source[T]
	store     Store
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// New creates a Cached source. namespace separates entity types sharing one
// store.
func New[T any](next Source[T], store Store, namespace string, ttl time.Duration, logger *slog.Logger) *Cached[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached[T]{
		next:      next,
		store:     store,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger,
	}
}

// FindOne implements Source.
func (c *Cached[T]) FindOne(ctx context.Context, s spec.Specification, attrs ...string) (*T, error) {
	return readThrough(ctx, c, "one", s, attrs, func() (*T, error) {
		return c.next.FindOne(ctx, s, attrs...)
	})
}

// FindAll implements Source.
func (c *Cached[T]) FindAll(ctx context.Context, s spec.Specification, attrs ...string) (*spec.Page[T], error) {
	return readThrough(ctx, c, "all", s, attrs, func() (*spec.Page[T], error) {
		return c.next.FindAll(ctx, s, attrs...)
	})
}

// Exists implements Source.
func (c *Cached[T]) Exists(ctx context.Context, s spec.Specification) (bool, error) {
	return readThrough(ctx, c, "exists", s, nil, func() (bool, error) {
		return c.next.Exists(ctx, s)
	})
}

// Invalidate drops every cached entry of the namespace.
func (c *Cached[T]) Invalidate(ctx context.Context) error {
	if _, err := c.store.Incr(ctx, c.versionKey()); err != nil {
		return fmt.Errorf("invalidate %s: %w", c.namespace, err)
	}
	return nil
}

func (c *Cached[T]) versionKey() string {
	return c.namespace + ":version"
}

func (c *Cached[T]) version(ctx context.Context) (int64, error) {
	raw, ok, err := c.store.Get(ctx, c.versionKey())
	if err != nil || !ok {
		return 0, err
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version of %s: %w", c.namespace, err)
	}
	return v, nil
}

func (c *Cached[T]) warn(ctx context.Context, msg, key string, err error) {
	c.logger.WarnContext(ctx, msg,
		slog.String("namespace", c.namespace),
		slog.String("key", key),
		slog.Any("error", err),
	)
}

// readThrough serves op from the store when possible and fills it otherwise.
func readThrough[T, V any](ctx context.Context, c *Cached[T], op string, s spec.Specification, attrs []string, load func() (V, error)) (V, error) {
	var zero V

	specKey, err := spec.CacheKey(s)
	if err != nil {
		return zero, err
	}

	version, err := c.version(ctx)
	if err != nil {
		c.warn(ctx, "cache version lookup failed", c.versionKey(), err)
		return load()
	}
	key := fmt.Sprintf("%s:v%d:%s:%s:%s", c.namespace, version, op, strings.Join(attrs, ","), specKey)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.warn(ctx, "cache read failed", key, err)
		return load()
	}
	if ok {
		var v V
		err := codec.Unmarshal(raw, &v)
		if err == nil {
			return v, nil
		}
		c.warn(ctx, "cache entry undecodable", key, err)
	}

	v, err := load()
	if err != nil {
		return zero, err
	}
	encoded, err := codec.Marshal(v)
	if err != nil {
		c.warn(ctx, "cache entry unencodable", key, err)
		return v, nil
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		c.warn(ctx, "cache write failed", key, err)
	}
	return v, nil
}
