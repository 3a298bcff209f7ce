package agents

import (
	"sort"

	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/domain/recommendation"
	"hermes/internal/domain/sentiment"
	"hermes/pkg/logger"
)

// Scoring weights. Price fit dominates, sentiment second, rating last.
const (
	weightPrice     = 0.5
	weightSentiment = 0.3
	weightRating    = 0.2

	defaultPosRatio    = 0.5
	defaultRatingScore = 0.5
	noBudgetPriceScore = 0.7
)

// RecommendationAgent ranks products by a weighted composite of
// price fit, review sentiment and buyer rating.
//
// A budget never excludes anything: over-budget items stay in the
// ranked output, they just score lower. (The source system had a
// second recommender that filtered by budget; the two semantics are
// deliberately not merged and keep-all-scored is the one implemented.)
type RecommendationAgent struct {
	log *logger.Logger
}

// NewRecommendationAgent creates a recommendation agent
func NewRecommendationAgent() *RecommendationAgent {
	return &RecommendationAgent{
		log: logger.Get().With("agent", "recommendation"),
	}
}

// Recommend scores every product and returns them ranked descending.
// The sort is stable: equal scores keep the original product order.
// A non-positive budget means "no budget".
func (a *RecommendationAgent) Recommend(
	products []product.Product,
	summary map[string]pricing.Summary,
	sentiments map[string]sentiment.Result,
	budget float64,
) []recommendation.Recommendation {
	ranked := make([]recommendation.Recommendation, 0, len(products))
	for _, p := range products {
		pos := defaultPosRatio
		if s, ok := sentiments[p.ID]; ok {
			pos = s.Pos
		}

		ratingScore := defaultRatingScore
		if p.Rating != nil {
			ratingScore = *p.Rating / 5.0
		}

		score := weightPrice*priceFitScore(p.Price, budget) +
			weightSentiment*pos +
			weightRating*ratingScore

		ranked = append(ranked, recommendation.Recommendation{
			Product:      p,
			Score:        round3(score),
			SentimentPos: pos,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// priceFitScore measures how well a price matches the budget.
//
// At or under budget the reward scales toward 1.0 as the price
// approaches the budget from below; a price of 0 scores exactly 0.5.
// Being far under budget is penalized on purpose so a suspiciously
// cheap listing does not automatically beat a well-fit one.
// Over budget the score falls linearly, reaching 0 at 3x budget.
func priceFitScore(price, budget float64) float64 {
	if budget <= 0 {
		return noBudgetPriceScore
	}

	if price <= budget {
		b := budget
		if b < epsilon {
			b = epsilon
		}
		return 1.0 - (budget-price)/b*0.5
	}

	s := 1.0 - (price-budget)/(budget*2)
	if s < 0 {
		return 0
	}
	return s
}
