package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hermes/internal/domain/pricing"
	"hermes/pkg/errors"
)

// Compile-time check
var _ pricing.Repository = (*PriceHistoryRepository)(nil)

// PriceHistoryRepository implements pricing.Repository using sqlx.
// The table is append-only; rows are never updated or deleted.
type PriceHistoryRepository struct {
	db sqlx.ExtContext
}

// NewPriceHistoryRepository creates a new price history repository
func NewPriceHistoryRepository(db sqlx.ExtContext) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db}
}

// Append records one price observation
func (r *PriceHistoryRepository) Append(ctx context.Context, entry pricing.HistoryEntry) error {
	query := `
		INSERT INTO price_history (product_id, retailer, price, seen_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ProductID, entry.Retailer, entry.Price, entry.SeenAt,
	)
	if err != nil {
		return errors.Wrapf(errors.ErrHistoryStore, "append observation for %s: %v", entry.ProductID, err)
	}

	return nil
}

// History returns all observations for a product, newest first
func (r *PriceHistoryRepository) History(ctx context.Context, productID string) ([]pricing.HistoryEntry, error) {
	var entries []pricing.HistoryEntry

	query := `
		SELECT product_id, retailer, price, seen_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY seen_at DESC`

	if err := sqlx.SelectContext(ctx, r.db, &entries, query, productID); err != nil {
		return nil, errors.Wrapf(errors.ErrHistoryStore, "read history for %s: %v", productID, err)
	}

	return entries, nil
}
