package providers

import (
	"context"

	"hermes/internal/domain/product"
)

// Provider is an external product-search source.
//
// Implementations absorb transient upstream failures: a provider that
// is down, rate-limited or returning garbage logs the problem and
// returns an empty slice rather than an error, so a degraded upstream
// never blocks the pipeline. Search returns results in the provider's
// own relevance order; the search agent relies on that order being
// stable for deterministic tie-breaking downstream.
type Provider interface {
	// Name returns the unique provider identifier
	Name() string

	// Search returns up to limit products matching the query
	Search(ctx context.Context, query string, limit int) ([]product.Product, error)
}
