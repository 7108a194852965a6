package marketdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/ksfraser/stock-analysis/internal/engine"
	"github.com/ksfraser/stock-analysis/pkg/logger"
)

// ErrUnsupported is returned by providers for data they do not serve;
// the chain skips past it without logging a failure.
var ErrUnsupported = errors.New("operation not supported by provider")

// ErrSymbolNotFound indicates the provider recognized the request but
// has no data for the symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Provider serves market data for one upstream source. Implementations
// must be safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs and cache keys.
	Name() string

	// PriceHistory returns up to `days` trailing daily bars, sorted
	// ascending by date.
	PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error)

	// Fundamentals returns the latest fundamentals snapshot.
	Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error)
}

// Chain tries providers in order and returns the first success. A
// provider failing or not supporting an operation falls through to the
// next one.
type Chain struct {
	providers []Provider
	logger    *logger.Logger
}

// NewChain creates a provider chain in priority order
func NewChain(log *logger.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    log,
	}
}

// Name implements Provider
func (c *Chain) Name() string {
	return "chain"
}

// PriceHistory implements Provider
func (c *Chain) PriceHistory(ctx context.Context, symbol string, days int) (engine.PriceSeries, error) {
	var lastErr error

	for _, p := range c.providers {
		series, err := p.PriceHistory(ctx, symbol, days)
		if err == nil {
			return series, nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"provider": p.Name(),
			"symbol":   symbol,
			"error":    err.Error(),
		}).Warn("Price history provider failed, trying next")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = ErrUnsupported
	}
	return nil, fmt.Errorf("all providers failed for %s: %w", symbol, lastErr)
}

// Fundamentals implements Provider
func (c *Chain) Fundamentals(ctx context.Context, symbol string) (engine.FundamentalSnapshot, error) {
	var lastErr error

	for _, p := range c.providers {
		snapshot, err := p.Fundamentals(ctx, symbol)
		if err == nil {
			return snapshot, nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"provider": p.Name(),
			"symbol":   symbol,
			"error":    err.Error(),
		}).Warn("Fundamentals provider failed, trying next")
		lastErr = err
	}

	if lastErr == nil {
		lastErr = ErrUnsupported
	}
	return engine.FundamentalSnapshot{}, fmt.Errorf("all providers failed for %s: %w", symbol, lastErr)
}
