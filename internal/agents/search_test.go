package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/product"
	"hermes/internal/providers"
	"hermes/pkg/errors"
)

// fakeProvider returns a canned result, optionally after a delay so
// tests can force out-of-order completion.
type fakeProvider struct {
	name  string
	items []product.Product
	err   error
	delay time.Duration
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query string, limit int) ([]product.Product, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.items, f.err
}

func listing(id, retailer, title string, price float64) product.Product {
	return product.Product{
		ID:       id,
		Retailer: retailer,
		Title:    title,
		Price:    price,
		Currency: "USD",
	}
}

func TestSearchMergesInProviderOrder(t *testing.T) {
	// The slower provider is registered first; its results must still
	// come first in the merged output.
	slow := &fakeProvider{
		name:  "slow",
		delay: 50 * time.Millisecond,
		items: []product.Product{listing("slow:1", "Slow", "keyboard", 40)},
	}
	fast := &fakeProvider{
		name:  "fast",
		items: []product.Product{listing("fast:1", "Fast", "keyboard", 35)},
	}

	agent := NewSearchAgent([]providers.Provider{slow, fast})
	results := agent.Search(context.Background(), "keyboard", 10)

	require.Len(t, results, 2)
	assert.Equal(t, "slow:1", results[0].ID)
	assert.Equal(t, "fast:1", results[1].ID)
}

func TestSearchToleratesFailingProvider(t *testing.T) {
	failing := &fakeProvider{name: "broken", err: errors.ErrProviderUnavailable}
	working := &fakeProvider{
		name:  "working",
		items: []product.Product{listing("ok:1", "Shop", "mouse", 20)},
	}

	agent := NewSearchAgent([]providers.Provider{failing, working})
	results := agent.Search(context.Background(), "mouse", 10)

	require.Len(t, results, 1)
	assert.Equal(t, "ok:1", results[0].ID)
}

func TestSearchAllProvidersEmpty(t *testing.T) {
	agent := NewSearchAgent([]providers.Provider{
		&fakeProvider{name: "a"},
		&fakeProvider{name: "b"},
	})

	results := agent.Search(context.Background(), "nothing", 10)
	assert.Empty(t, results)
}

func TestDedupeFirstWins(t *testing.T) {
	first := listing("ebay:1", "eBay", "first seen", 10)
	duplicate := listing("ebay:1", "eBay", "later duplicate", 99)
	other := listing("ebay:2", "eBay", "other", 15)

	out := Dedupe([]product.Product{first, duplicate, other})

	require.Len(t, out, 2)
	assert.Equal(t, "first seen", out[0].Title)
	assert.Equal(t, "ebay:2", out[1].ID)
}

func TestDedupeSameIDDifferentRetailerKept(t *testing.T) {
	a := listing("x:1", "eBay", "a", 10)
	b := listing("x:1", "Amazon", "b", 10)

	out := Dedupe([]product.Product{a, b})
	assert.Len(t, out, 2)
}

func TestDedupeIdempotent(t *testing.T) {
	items := []product.Product{
		listing("a:1", "A", "one", 1),
		listing("a:1", "A", "dup", 2),
		listing("b:1", "B", "two", 3),
	}

	once := Dedupe(items)
	twice := Dedupe(once)

	assert.Equal(t, once, twice)
}
