package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/domain/sentiment"
)

func scored(pos float64) sentiment.Result {
	return sentiment.Result{Pos: pos, Neg: 1 - pos}
}

func TestRecommendPrefersWellPricedWellReviewed(t *testing.T) {
	agent := NewRecommendationAgent()

	cheap := listing("x:1", "ShopA", "budget pick", 50)
	pricey := listing("x:2", "ShopB", "over budget", 80)

	ranked := agent.Recommend(
		[]product.Product{pricey, cheap},
		map[string]pricing.Summary{},
		map[string]sentiment.Result{
			"x:1": scored(0.9),
			"x:2": scored(0.1),
		},
		60,
	)

	require.Len(t, ranked, 2)
	assert.Equal(t, "x:1", ranked[0].Product.ID)
	// 0.5*(1 - 10/60*0.5) + 0.3*0.9 + 0.2*0.5
	assert.Equal(t, 0.828, ranked[0].Score)
	// 0.5*(1 - 20/120) + 0.3*0.1 + 0.2*0.5
	assert.Equal(t, 0.547, ranked[1].Score)
}

func TestRecommendPriceExactlyAtBudget(t *testing.T) {
	agent := NewRecommendationAgent()

	ranked := agent.Recommend(
		[]product.Product{listing("x:1", "Shop", "exact fit", 60)},
		nil, nil, 60,
	)

	// Price fit 1.0, sentiment and rating at defaults.
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.75, ranked[0].Score)
}

func TestRecommendZeroPriceUnderBudget(t *testing.T) {
	agent := NewRecommendationAgent()

	ranked := agent.Recommend(
		[]product.Product{listing("x:1", "Shop", "free item", 0)},
		nil, nil, 60,
	)

	// A price of 0 gets exactly half the price reward.
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.5, ranked[0].Score)
}

func TestRecommendOverBudgetDecaysToZero(t *testing.T) {
	agent := NewRecommendationAgent()

	atTriple := listing("x:1", "Shop", "triple budget", 180)
	beyond := listing("x:2", "Shop", "way over", 500)

	ranked := agent.Recommend(
		[]product.Product{atTriple, beyond},
		nil, nil, 60,
	)

	// At 3x budget the price component is exactly 0; further over it
	// clamps instead of going negative.
	require.Len(t, ranked, 2)
	assert.Equal(t, 0.25, ranked[0].Score)
	assert.Equal(t, 0.25, ranked[1].Score)
}

func TestRecommendNoBudget(t *testing.T) {
	agent := NewRecommendationAgent()

	ranked := agent.Recommend(
		[]product.Product{listing("x:1", "Shop", "anything", 999)},
		nil, nil, 0,
	)

	// 0.5*0.7 + 0.3*0.5 + 0.2*0.5
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.6, ranked[0].Score)
}

func TestRecommendUsesRating(t *testing.T) {
	agent := NewRecommendationAgent()

	rating := 4.5
	rated := listing("x:1", "Shop", "well rated", 999)
	rated.Rating = &rating
	unrated := listing("x:2", "Shop", "unrated", 999)

	ranked := agent.Recommend(
		[]product.Product{unrated, rated},
		nil, nil, 0,
	)

	require.Len(t, ranked, 2)
	assert.Equal(t, "x:1", ranked[0].Product.ID)
	// 0.35 + 0.15 + 0.2*(4.5/5)
	assert.Equal(t, 0.68, ranked[0].Score)
	assert.Equal(t, 0.6, ranked[1].Score)
}

func TestRecommendKeepsOverBudgetItems(t *testing.T) {
	agent := NewRecommendationAgent()

	ranked := agent.Recommend(
		[]product.Product{
			listing("x:1", "Shop", "affordable", 40),
			listing("x:2", "Shop", "expensive", 400),
		},
		nil, nil, 60,
	)

	// Budget ranks, it never filters.
	assert.Len(t, ranked, 2)
}

func TestRecommendStableOnTies(t *testing.T) {
	agent := NewRecommendationAgent()

	ranked := agent.Recommend(
		[]product.Product{
			listing("x:1", "Shop", "first", 30),
			listing("x:2", "Shop", "second", 30),
			listing("x:3", "Shop", "third", 30),
		},
		nil, nil, 60,
	)

	require.Len(t, ranked, 3)
	assert.Equal(t, "x:1", ranked[0].Product.ID)
	assert.Equal(t, "x:2", ranked[1].Product.ID)
	assert.Equal(t, "x:3", ranked[2].Product.ID)
}

func TestRecommendEmptyInput(t *testing.T) {
	agent := NewRecommendationAgent()

	ranked := agent.Recommend(nil, nil, nil, 100)
	assert.Empty(t, ranked)
}
