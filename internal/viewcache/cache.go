// Package viewcache stores rendered views (PNG charts, XLSX workbooks) so a
// burst of requests renders each view once per snapshot.
//
// Keys embed the snapshot ID, so a reload never serves a stale rendering and
// no explicit invalidation is needed. Two backends exist: process memory for a
// single instance and Redis when several instances share the work.
package viewcache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"povertymap/pkg/platform/circuit"
	"povertymap/pkg/platform/sentinel"
)

// Cache is a byte store with per-entry expiry. Get returns an error wrapping
// sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Renderer answers from the cache and renders on a miss. Concurrent misses for
// the same key render once. Cache failures are logged and bypassed; the
// rendering itself is always authoritative.
type Renderer struct {
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics
	breaker *circuit.Breaker
	group   singleflight.Group
}

type Option func(*Renderer)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithBreaker skips the cache while breaker is open, so an unreachable Redis
// costs one timeout per cooldown instead of one per request.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Renderer) {
		r.breaker = b
	}
}

// NewRenderer wraps cache. A nil cache disables caching but keeps coalescing.
func NewRenderer(cache Cache, ttl time.Duration, opts ...Option) *Renderer {
	r := &Renderer{
		cache:  cache,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do returns the cached bytes for key, or calls render and caches its result.
// Render errors are returned and never cached.
func (r *Renderer) Do(ctx context.Context, key string, render func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if r.allow() {
		body, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			r.record(ctx, nil)
			r.metrics.IncrementHit()
			return body, nil
		case isMiss(err):
			r.record(ctx, nil)
		default:
			r.record(ctx, err)
			r.metrics.IncrementError("get")
			r.logger.WarnContext(ctx, "view cache read failed", "key", key, "error", err)
		}
	}
	r.metrics.IncrementMiss()

	v, err, _ := r.group.Do(key, func() (any, error) {
		start := time.Now()
		body, err := render(ctx)
		if err != nil {
			return nil, err
		}
		r.metrics.ObserveRender(start)
		if r.allow() {
			err := r.cache.Set(ctx, key, body, r.ttl)
			r.record(ctx, err)
			if err != nil {
				r.metrics.IncrementError("set")
				r.logger.WarnContext(ctx, "view cache write failed", "key", key, "error", err)
			}
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (r *Renderer) allow() bool {
	if r.cache == nil {
		return false
	}
	return r.breaker == nil || r.breaker.Allow()
}

func (r *Renderer) record(ctx context.Context, err error) {
	if r.breaker == nil {
		return
	}
	if err != nil {
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.logger.WarnContext(ctx, "view cache disabled after repeated failures", "breaker", r.breaker.Name())
		}
		return
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "view cache re-enabled", "breaker", r.breaker.Name())
	}
}

// Key builds a cache key scoped to one snapshot.
func Key(snapshotID, view string) string {
	return "povertymap:view:" + snapshotID + ":" + view
}

func isMiss(err error) bool {
	return errors.Is(err, sentinel.ErrNotFound)
}
