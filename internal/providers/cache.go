package providers

import (
	"context"
	"fmt"
	"time"

	redisadapter "hermes/internal/adapters/redis"
	"hermes/internal/domain/product"
	"hermes/pkg/logger"
)

// CachedProvider decorates a Provider with a Redis response cache so
// repeated searches within the TTL do not burn provider quota.
// Cache failures degrade to a direct provider call.
type CachedProvider struct {
	inner Provider
	cache *redisadapter.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedProvider wraps inner with a search-result cache
func NewCachedProvider(inner Provider, cache *redisadapter.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache,
		ttl:   ttl,
		log:   logger.Get().With("component", "search_cache", "provider", inner.Name()),
	}
}

// Name returns the wrapped provider's identifier
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// Search serves from cache when possible, falling through to the
// wrapped provider and caching its response on a miss.
func (p *CachedProvider) Search(ctx context.Context, query string, limit int) ([]product.Product, error) {
	key := p.cacheKey(query, limit)

	var cached []product.Product
	err := p.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		p.log.Debugf("cache hit for %q (%d products)", query, len(cached))
		return cached, nil
	}
	if !redisadapter.IsMiss(err) {
		p.log.Warnf("cache read failed, querying provider directly: %v", err)
	}

	results, err := p.inner.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if err := p.cache.SetJSON(ctx, key, results, p.ttl); err != nil {
		p.log.Warnf("cache write failed: %v", err)
	}

	return results, nil
}

func (p *CachedProvider) cacheKey(query string, limit int) string {
	return fmt.Sprintf("search:%s:%d:%s", p.inner.Name(), limit, query)
}
