package agents

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// PriceComparisonAgent groups products by normalized title, computes
// per-group price statistics and records every observed price in the
// history store.
//
// Recording happens on every call: re-running a search for the same
// item is exactly what grows the price history log. A history store
// failure is fatal to the call; unlike third-party search APIs, local
// persistence is assumed reliable and gets no silent fallback.
type PriceComparisonAgent struct {
	history pricing.Repository
	now     func() time.Time
	log     *logger.Logger
}

// NewPriceComparisonAgent creates a price comparison agent backed by
// the given history store
func NewPriceComparisonAgent(history pricing.Repository) *PriceComparisonAgent {
	return &PriceComparisonAgent{
		history: history,
		now:     func() time.Time { return time.Now().UTC() },
		log:     logger.Get().With("agent", "price_comparison"),
	}
}

// Compare returns a price summary per normalized-title group.
// Group keys iterate in order of first appearance.
func (a *PriceComparisonAgent) Compare(ctx context.Context, products []product.Product) (map[string]pricing.Summary, error) {
	groups := make(map[string][]product.Product)
	var order []string

	for _, p := range products {
		key := product.NormalizeTitle(p.Title)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)

		// One observation per product per call, before history reads,
		// so the read-back below includes it.
		entry := pricing.HistoryEntry{
			ProductID: p.ID,
			Retailer:  p.Retailer,
			Price:     p.Price,
			SeenAt:    a.now(),
		}
		if err := a.history.Append(ctx, entry); err != nil {
			return nil, errors.Wrapf(err, "track price for %s", p.ID)
		}
		metrics.PriceObservations.Inc()
	}

	summary := make(map[string]pricing.Summary, len(groups))
	for _, key := range order {
		items := groups[key]

		s, err := a.summarize(ctx, items)
		if err != nil {
			return nil, err
		}
		summary[key] = s
	}

	a.log.Debugf("compared %d products in %d groups", len(products), len(summary))
	return summary, nil
}

// summarize aggregates one normalized-title group
func (a *PriceComparisonAgent) summarize(ctx context.Context, items []product.Product) (pricing.Summary, error) {
	minPrice := items[0].Price
	maxPrice := items[0].Price
	best := items[0]
	sum := 0.0

	for _, p := range items {
		if p.Price < minPrice {
			minPrice = p.Price
			best = p
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
		sum += p.Price
	}

	history := make(map[string][]pricing.HistoryEntry, len(items))
	for _, p := range items {
		entries, err := a.history.History(ctx, p.ID)
		if err != nil {
			return pricing.Summary{}, errors.Wrapf(err, "load history for %s", p.ID)
		}
		history[p.ID] = entries
	}

	avg := decimal.NewFromFloat(sum / float64(len(items))).Round(2).InexactFloat64()

	return pricing.Summary{
		Items:    items,
		Count:    len(items),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		AvgPrice: avg,
		BestDeal: best,
		History:  history,
	}, nil
}
