package workers

import (
	"context"
	"time"

	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/metrics"
	"hermes/internal/notify"
)

// searcher runs a multi-provider product search
type searcher interface {
	Search(ctx context.Context, query string, limit int) []product.Product
}

// comparer groups products and records price observations
type comparer interface {
	Compare(ctx context.Context, products []product.Product) (map[string]pricing.Summary, error)
}

// PriceWatchWorker periodically re-runs a set of watched queries,
// records the observed prices and alerts when a group's best deal
// drops below every previously recorded price for that product.
type PriceWatchWorker struct {
	*BaseWorker

	search     searcher
	price      comparer
	notifier   notify.Notifier
	queries    []string
	maxResults int
}

// NewPriceWatchWorker creates the price-watch worker. A nil notifier
// disables alert delivery; drops are still logged.
func NewPriceWatchWorker(
	search searcher,
	price comparer,
	notifier notify.Notifier,
	queries []string,
	interval time.Duration,
	maxResults int,
) *PriceWatchWorker {
	return &PriceWatchWorker{
		BaseWorker: NewBaseWorker("price_watch", interval, len(queries) > 0),
		search:     search,
		price:      price,
		notifier:   notifier,
		queries:    queries,
		maxResults: maxResults,
	}
}

// Run executes one watch cycle over all configured queries
func (w *PriceWatchWorker) Run(ctx context.Context) error {
	for _, query := range w.queries {
		if err := w.watchQuery(ctx, query); err != nil {
			w.RecordError(err)
			return err
		}
	}

	w.RecordRun()
	return nil
}

// watchQuery searches one query and checks every group's best deal
// against its recorded history
func (w *PriceWatchWorker) watchQuery(ctx context.Context, query string) error {
	products := w.search.Search(ctx, query, w.maxResults)
	if len(products) == 0 {
		w.Log().Debugf("no results for watched query %q", query)
		return nil
	}

	summary, err := w.price.Compare(ctx, products)
	if err != nil {
		return err
	}

	for _, group := range summary {
		w.checkBestDeal(ctx, query, group)
	}

	return nil
}

// checkBestDeal alerts when the group's best deal beats the lowest
// price seen in any earlier observation of that product
func (w *PriceWatchWorker) checkBestDeal(ctx context.Context, query string, group pricing.Summary) {
	best := group.BestDeal
	if best.PriceUnknown {
		return
	}

	// History is newest-first and already includes the observation
	// recorded by this cycle's Compare call, so skip the head entry.
	entries := group.History[best.ID]
	if len(entries) < 2 {
		return
	}

	prevMin := entries[1].Price
	for _, e := range entries[1:] {
		if e.Price < prevMin {
			prevMin = e.Price
		}
	}

	if best.Price >= prevMin {
		return
	}

	w.Log().Infow("price drop detected",
		"query", query,
		"product_id", best.ID,
		"price", best.Price,
		"previous_min", prevMin,
	)

	if w.notifier == nil {
		return
	}

	drop := notify.PriceDrop{
		Query:       query,
		Title:       best.Title,
		Retailer:    best.Retailer,
		Currency:    best.Currency,
		Price:       best.Price,
		PreviousMin: prevMin,
		URL:         best.URL,
	}
	if err := w.notifier.NotifyPriceDrop(ctx, drop); err != nil {
		w.Log().Errorf("failed to deliver price drop alert for %s: %v", best.ID, err)
		return
	}

	metrics.PriceDropAlerts.Inc()
}
