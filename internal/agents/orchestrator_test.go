package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/product"
	"hermes/internal/providers"
	"hermes/pkg/errors"
)

func newTestOrchestrator(provs ...providers.Provider) *Orchestrator {
	return NewOrchestrator(
		NewSearchAgent(provs),
		newTestPriceAgent(newMemoryHistory()),
		NewReviewAnalysisAgent(nil),
		NewRecommendationAgent(),
	)
}

func TestOrchestratorRunsFullPipeline(t *testing.T) {
	provider := &fakeProvider{
		name: "shop",
		items: []product.Product{
			listing("s:1", "Shop", "usb hub", 25),
			listing("s:2", "Shop", "usb hub", 30),
			listing("s:3", "Shop", "laptop stand", 45),
		},
	}

	o := newTestOrchestrator(provider)
	result, err := o.Run(context.Background(), "usb hub", 50, 10)

	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", result.RunID.String())
	assert.Equal(t, "usb hub", result.Query)
	assert.Equal(t, 50.0, result.Budget)
	assert.Len(t, result.Products, 3)
	assert.Len(t, result.Summary, 2)
	assert.Len(t, result.Sentiments, 3)
	assert.Len(t, result.Ranked, 3)

	// Sentiment disabled, so everything is neutral.
	for _, s := range result.Sentiments {
		assert.Equal(t, 0.5, s.Pos)
	}

	// Ranked output is sorted descending.
	for i := 1; i < len(result.Ranked); i++ {
		assert.GreaterOrEqual(t, result.Ranked[i-1].Score, result.Ranked[i].Score)
	}
}

func TestOrchestratorNoResults(t *testing.T) {
	o := newTestOrchestrator(&fakeProvider{name: "empty"})

	result, err := o.Run(context.Background(), "nonexistent gadget", 0, 10)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, errors.ErrNoResults))
}

func TestOrchestratorHistoryFailurePropagates(t *testing.T) {
	o := NewOrchestrator(
		NewSearchAgent([]providers.Provider{&fakeProvider{
			name:  "shop",
			items: []product.Product{listing("s:1", "Shop", "usb hub", 25)},
		}}),
		newTestPriceAgent(&memoryHistory{failing: true}),
		NewReviewAnalysisAgent(nil),
		NewRecommendationAgent(),
	)

	_, err := o.Run(context.Background(), "usb hub", 0, 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrHistoryStore))
}
