package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/pricing"
	"hermes/internal/testsupport"
)

func TestPriceHistoryRoundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)
	repo := NewPriceHistoryRepository(helper.Tx())

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	observations := []pricing.HistoryEntry{
		{ProductID: "test:roundtrip", Retailer: "eBay", Price: 99.99, SeenAt: base},
		{ProductID: "test:roundtrip", Retailer: "eBay", Price: 89.99, SeenAt: base.Add(time.Hour)},
		{ProductID: "test:other", Retailer: "Amazon", Price: 10.00, SeenAt: base},
	}
	for _, entry := range observations {
		require.NoError(t, repo.Append(ctx, entry))
	}

	entries, err := repo.History(ctx, "test:roundtrip")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, 89.99, entries[0].Price)
	assert.Equal(t, 99.99, entries[1].Price)
	assert.Equal(t, "eBay", entries[0].Retailer)
	assert.True(t, entries[0].SeenAt.After(entries[1].SeenAt))
}

func TestPriceHistoryEmptyForUnknownProduct(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)
	repo := NewPriceHistoryRepository(helper.Tx())

	entries, err := repo.History(context.Background(), "test:never-seen")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPriceHistoryAppendOnly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)
	repo := NewPriceHistoryRepository(helper.Tx())

	ctx := context.Background()
	seen := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// The same product and price can be recorded any number of times;
	// each call adds a row.
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, pricing.HistoryEntry{
			ProductID: "test:repeat",
			Retailer:  "eBay",
			Price:     49.99,
			SeenAt:    seen.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.History(ctx, "test:repeat")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
