package agents

import (
	"context"
	"sync"

	"hermes/internal/domain/product"
	"hermes/internal/metrics"
	"hermes/internal/providers"
	"hermes/pkg/logger"
)

// SearchAgent fans a query out to all configured providers and merges
// their results into one deduplicated list.
//
// Providers are queried concurrently, but the merged list always puts
// provider A's results before provider B's (each internally in
// provider-returned order), so the output is deterministic regardless
// of which network call finishes first. That ordering matters: every
// downstream tie-break ("first occurrence wins") is defined against it.
type SearchAgent struct {
	providers []providers.Provider
	log       *logger.Logger
}

// NewSearchAgent creates a search agent over the given providers.
// Provider order is significant and preserved in merged output.
func NewSearchAgent(provs []providers.Provider) *SearchAgent {
	return &SearchAgent{
		providers: provs,
		log:       logger.Get().With("agent", "product_search"),
	}
}

// Search queries every provider and returns the deduplicated union.
// A failing provider contributes nothing; it never fails the search.
// An empty result is a valid "no results" outcome, not an error.
func (a *SearchAgent) Search(ctx context.Context, query string, limit int) []product.Product {
	results := make([][]product.Product, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()

			found, err := p.Search(ctx, query, limit)
			if err != nil {
				a.log.Warnf("provider %s failed for %q: %v", p.Name(), query, err)
				metrics.ProviderErrors.WithLabelValues(p.Name()).Inc()
				return
			}

			metrics.ProviderResults.WithLabelValues(p.Name()).Add(float64(len(found)))
			results[i] = found
		}(i, p)
	}
	wg.Wait()

	var merged []product.Product
	for _, r := range results {
		merged = append(merged, r...)
	}

	return Dedupe(merged)
}

// Dedupe removes duplicate listings by (retailer, id) identity.
// The first occurrence wins; later duplicates are silently dropped.
// Running it twice yields the same list as once.
func Dedupe(items []product.Product) []product.Product {
	seen := make(map[product.Key]struct{}, len(items))
	out := make([]product.Product, 0, len(items))

	for _, p := range items {
		key := p.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	return out
}
