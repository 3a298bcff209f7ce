package pricing

import "context"

// Repository defines the interface for price history persistence.
// Unlike provider search, the store is assumed reliable local
// infrastructure: both operations fail loudly on storage errors.
type Repository interface {
	// Append records one price observation
	Append(ctx context.Context, entry HistoryEntry) error

	// History returns all observations for a product, newest first
	History(ctx context.Context, productID string) ([]HistoryEntry, error)
}
