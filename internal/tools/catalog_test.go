package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/agents"
	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/providers"
)

type stubProvider struct {
	items []product.Product
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(ctx context.Context, query string, limit int) ([]product.Product, error) {
	return s.items, nil
}

type stubHistory struct{}

func (stubHistory) Append(ctx context.Context, entry pricing.HistoryEntry) error { return nil }

func (stubHistory) History(ctx context.Context, productID string) ([]pricing.HistoryEntry, error) {
	return nil, nil
}

func newTestRegistry(items ...product.Product) *Registry {
	registry := NewRegistry()
	RegisterPipelineTools(
		registry,
		agents.NewSearchAgent([]providers.Provider{&stubProvider{items: items}}),
		agents.NewPriceComparisonAgent(stubHistory{}),
		agents.NewReviewAnalysisAgent(nil),
		agents.NewRecommendationAgent(),
	)
	return registry
}

func TestRegisterPipelineTools(t *testing.T) {
	registry := newTestRegistry()

	assert.ElementsMatch(t,
		[]string{"product_search", "price_compare", "review_analyze", "recommend"},
		registry.List(),
	)
}

func TestProductSearchTool(t *testing.T) {
	registry := newTestRegistry(product.Product{
		ID: "stub:1", Retailer: "Stub", Title: "gaming mouse", Price: 30,
	})

	tool, ok := registry.Get("product_search")
	require.True(t, ok)

	out, err := tool.Execute(context.Background(), SearchArgs{Query: "gaming mouse"})
	require.NoError(t, err)

	found, ok := out.([]product.Product)
	require.True(t, ok)
	require.Len(t, found, 1)
	assert.Equal(t, "stub:1", found[0].ID)
}

func TestPipelineToolsRejectWrongArgs(t *testing.T) {
	registry := newTestRegistry()

	for _, name := range registry.List() {
		tool, ok := registry.Get(name)
		require.True(t, ok)

		_, err := tool.Execute(context.Background(), "not a struct")
		assert.Error(t, err, "tool %s accepted malformed arguments", name)
	}
}

func TestRecommendTool(t *testing.T) {
	registry := newTestRegistry()

	tool, ok := registry.Get("recommend")
	require.True(t, ok)

	out, err := tool.Execute(context.Background(), RecommendArgs{
		Products: []product.Product{
			{ID: "a:1", Retailer: "A", Title: "item", Price: 45},
		},
		Budget: 50,
	})
	require.NoError(t, err)
	assert.NotNil(t, out)
}
