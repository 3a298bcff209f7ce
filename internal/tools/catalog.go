package tools

import (
	"context"

	"hermes/internal/agents"
	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/domain/sentiment"
	"hermes/pkg/errors"
)

// Argument structs for the pipeline tools. Every tool takes exactly
// one canonical typed payload; there is no loose string/map coercion
// between stages.

// SearchArgs are the arguments for the product_search tool
type SearchArgs struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// ProductsArgs are the arguments for tools operating on a product list
type ProductsArgs struct {
	Products []product.Product `json:"products"`
}

// RecommendArgs are the arguments for the recommend tool
type RecommendArgs struct {
	Products   []product.Product           `json:"products"`
	Summary    map[string]pricing.Summary  `json:"summary"`
	Sentiments map[string]sentiment.Result `json:"sentiments"`
	Budget     float64                     `json:"budget"`
}

// RegisterPipelineTools exposes the pipeline agents as discoverable
// tools so an LLM-driven planner can invoke individual stages.
func RegisterPipelineTools(
	registry *Registry,
	search *agents.SearchAgent,
	price *agents.PriceComparisonAgent,
	review *agents.ReviewAnalysisAgent,
	reco *agents.RecommendationAgent,
) {
	registry.Register("product_search", New(
		"product_search",
		"Search all configured product providers and return deduplicated listings",
		func(ctx context.Context, args interface{}) (interface{}, error) {
			a, ok := args.(SearchArgs)
			if !ok {
				return nil, errors.Wrap(errors.ErrInvalidInput, "product_search expects SearchArgs")
			}
			if a.MaxResults <= 0 {
				a.MaxResults = 10
			}
			return search.Search(ctx, a.Query, a.MaxResults), nil
		},
	))

	registry.Register("price_compare", New(
		"price_compare",
		"Group products by normalized title, compute price statistics and record history",
		func(ctx context.Context, args interface{}) (interface{}, error) {
			a, ok := args.(ProductsArgs)
			if !ok {
				return nil, errors.Wrap(errors.ErrInvalidInput, "price_compare expects ProductsArgs")
			}
			return price.Compare(ctx, a.Products)
		},
	))

	registry.Register("review_analyze", New(
		"review_analyze",
		"Fuse review sentiment per product from its review texts",
		func(ctx context.Context, args interface{}) (interface{}, error) {
			a, ok := args.(ProductsArgs)
			if !ok {
				return nil, errors.Wrap(errors.ErrInvalidInput, "review_analyze expects ProductsArgs")
			}
			return review.Analyze(ctx, a.Products), nil
		},
	))

	registry.Register("recommend", New(
		"recommend",
		"Rank products by price fit, sentiment and rating under an optional budget",
		func(ctx context.Context, args interface{}) (interface{}, error) {
			a, ok := args.(RecommendArgs)
			if !ok {
				return nil, errors.Wrap(errors.ErrInvalidInput, "recommend expects RecommendArgs")
			}
			return reco.Recommend(a.Products, a.Summary, a.Sentiments, a.Budget), nil
		},
	))
}
