package pricing

import (
	"time"

	"hermes/internal/domain/product"
)

// HistoryEntry is one recorded price observation.
// Rows are append-only: the pipeline never mutates or prunes them.
type HistoryEntry struct {
	ProductID string    `db:"product_id" json:"product_id"`
	Retailer  string    `db:"retailer" json:"retailer"`
	Price     float64   `db:"price" json:"price"`
	SeenAt    time.Time `db:"seen_at" json:"seen_at"` // UTC
}

// Summary aggregates one normalized-title group for price comparison
type Summary struct {
	Items    []product.Product `json:"items"`
	Count    int               `json:"count"`
	MinPrice float64           `json:"min_price"`
	MaxPrice float64           `json:"max_price"`
	// AvgPrice is the arithmetic mean rounded to 2 decimal places
	AvgPrice float64 `json:"avg_price"`
	// BestDeal is the group member with the minimum price; on equal
	// prices the earliest member wins.
	BestDeal product.Product `json:"best_deal"`
	// History holds the full newest-first price history per product ID
	History map[string][]HistoryEntry `json:"history"`
}
