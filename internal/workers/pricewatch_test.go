package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/notify"
	"hermes/pkg/errors"
)

type stubSearcher struct {
	items   map[string][]product.Product
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) []product.Product {
	s.queries = append(s.queries, query)
	return s.items[query]
}

type stubComparer struct {
	summary map[string]pricing.Summary
	err     error
}

func (s *stubComparer) Compare(ctx context.Context, products []product.Product) (map[string]pricing.Summary, error) {
	return s.summary, s.err
}

type recordingNotifier struct {
	drops []notify.PriceDrop
	err   error
}

func (n *recordingNotifier) NotifyPriceDrop(ctx context.Context, drop notify.PriceDrop) error {
	n.drops = append(n.drops, drop)
	return n.err
}

func watchedProduct(id string, price float64) product.Product {
	return product.Product{
		ID:       id,
		Retailer: "Shop",
		Title:    "ssd 2tb",
		Price:    price,
		Currency: "USD",
	}
}

// summaryWithHistory builds one group whose best deal has the given
// newest-first price history.
func summaryWithHistory(best product.Product, history ...float64) map[string]pricing.Summary {
	entries := make([]pricing.HistoryEntry, 0, len(history))
	seen := time.Now().UTC()
	for i, price := range history {
		entries = append(entries, pricing.HistoryEntry{
			ProductID: best.ID,
			Retailer:  best.Retailer,
			Price:     price,
			SeenAt:    seen.Add(-time.Duration(i) * time.Hour),
		})
	}

	return map[string]pricing.Summary{
		"ssd 2tb": {
			Items:    []product.Product{best},
			Count:    1,
			MinPrice: best.Price,
			MaxPrice: best.Price,
			AvgPrice: best.Price,
			BestDeal: best,
			History:  map[string][]pricing.HistoryEntry{best.ID: entries},
		},
	}
}

func newWatchWorker(search *stubSearcher, compare *stubComparer, notifier notify.Notifier) *PriceWatchWorker {
	return NewPriceWatchWorker(search, compare, notifier, []string{"ssd 2tb"}, time.Hour, 10)
}

func TestPriceWatchAlertsOnDrop(t *testing.T) {
	best := watchedProduct("a:1", 79.99)
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	// Current observation first, then two older, higher prices.
	compare := &stubComparer{summary: summaryWithHistory(best, 79.99, 89.99, 99.99)}
	notifier := &recordingNotifier{}

	w := newWatchWorker(search, compare, notifier)
	require.NoError(t, w.Run(context.Background()))

	require.Len(t, notifier.drops, 1)
	drop := notifier.drops[0]
	assert.Equal(t, "ssd 2tb", drop.Query)
	assert.Equal(t, 79.99, drop.Price)
	assert.Equal(t, 89.99, drop.PreviousMin)
}

func TestPriceWatchNoAlertWhenPriceStable(t *testing.T) {
	best := watchedProduct("a:1", 89.99)
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	compare := &stubComparer{summary: summaryWithHistory(best, 89.99, 89.99, 99.99)}
	notifier := &recordingNotifier{}

	w := newWatchWorker(search, compare, notifier)
	require.NoError(t, w.Run(context.Background()))

	assert.Empty(t, notifier.drops)
}

func TestPriceWatchNoAlertOnFirstObservation(t *testing.T) {
	best := watchedProduct("a:1", 79.99)
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	compare := &stubComparer{summary: summaryWithHistory(best, 79.99)}
	notifier := &recordingNotifier{}

	w := newWatchWorker(search, compare, notifier)
	require.NoError(t, w.Run(context.Background()))

	assert.Empty(t, notifier.drops)
}

func TestPriceWatchSkipsUnknownPrices(t *testing.T) {
	best := watchedProduct("a:1", 0)
	best.PriceUnknown = true
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	compare := &stubComparer{summary: summaryWithHistory(best, 0, 89.99)}
	notifier := &recordingNotifier{}

	w := newWatchWorker(search, compare, notifier)
	require.NoError(t, w.Run(context.Background()))

	assert.Empty(t, notifier.drops)
}

func TestPriceWatchEmptySearchSkipsCompare(t *testing.T) {
	search := &stubSearcher{}
	compare := &stubComparer{err: errors.ErrHistoryStore}

	w := newWatchWorker(search, compare, nil)
	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, []string{"ssd 2tb"}, search.queries)
}

func TestPriceWatchCompareFailurePropagates(t *testing.T) {
	best := watchedProduct("a:1", 79.99)
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	compare := &stubComparer{err: errors.ErrHistoryStore}

	w := newWatchWorker(search, compare, nil)
	err := w.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, int64(1), w.Health().ErrorCount)
}

func TestPriceWatchNilNotifier(t *testing.T) {
	best := watchedProduct("a:1", 79.99)
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	compare := &stubComparer{summary: summaryWithHistory(best, 79.99, 99.99)}

	w := newWatchWorker(search, compare, nil)
	assert.NoError(t, w.Run(context.Background()))
}

func TestPriceWatchDisabledWithoutQueries(t *testing.T) {
	w := NewPriceWatchWorker(&stubSearcher{}, &stubComparer{}, nil, nil, time.Hour, 10)
	assert.False(t, w.Enabled())
}

func TestPriceWatchNotifierFailureDoesNotFailRun(t *testing.T) {
	best := watchedProduct("a:1", 79.99)
	search := &stubSearcher{items: map[string][]product.Product{
		"ssd 2tb": {best},
	}}
	compare := &stubComparer{summary: summaryWithHistory(best, 79.99, 99.99)}
	notifier := &recordingNotifier{err: errors.ErrUnavailable}

	w := newWatchWorker(search, compare, notifier)
	assert.NoError(t, w.Run(context.Background()))
}
