package recommendation

import "hermes/internal/domain/product"

// Recommendation is one ranked pick.
// Lists of recommendations are sorted descending by Score; equal
// scores preserve the original product order (stable sort).
type Recommendation struct {
	Product      product.Product `json:"product"`
	Score        float64         `json:"score"`
	SentimentPos float64         `json:"sentiment_pos"`
}
