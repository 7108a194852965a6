package marketdata

import (
	"context"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/pkg/logger"
	"github.com/ksfraser/stock-analysis/pkg/redis"
)

// CachedProvider decorates a provider with Redis caching. Cache
// failures are logged and treated as misses; the upstream provider is
// always the source of truth.
type CachedProvider struct {
	inner  Provider
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedProvider wraps a provider with caching
func NewCachedProvider(inner Provider, cache *redis.Cache, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		cache:  cache,
		logger: log,
	}
}

// Name implements Provider
func (p *CachedProvider) Name() string {
	return p.inner.Name() + "-cached"
}

// PriceHistory implements Provider
func (p *CachedProvider) PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error) {
	key := redis.PriceHistoryKey(symbol, days)

	var cached engine.PriceSeries
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).Warn("Price cache read failed")
	}
	if found {
		return cached, nil
	}

	series, err := p.inner.PriceHistory(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, series, redis.TTLDaily); err != nil {
		p.logger.WithError(err).Warn("Price cache write failed")
	}

	return series, nil
}

// Fundamentals implements Provider
func (p *CachedProvider) Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error) {
	key := redis.FundamentalsKey(symbol)

	var cached engine.FundamentalSnapshot
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).Warn("Fundamentals cache read failed")
	}
	if found {
		return cached, nil
	}

	snapshot, err := p.inner.Fundamentals(ctx, symbol)
	if err != nil {
		return engine.FundamentalSnapshot{}, err
	}

	if err := p.cache.Set(ctx, key, snapshot, redis.TTLMedium); err != nil {
		p.logger.WithError(err).Warn("Fundamentals cache write failed")
	}

	return snapshot, nil
}
