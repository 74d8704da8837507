package postgres_test

import (
	. "wybe-engine/internal/storage/postgres"

	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

func insertTradeFixture(t *testing.T, ctx context.Context, pool *Pool, tokenID, txID string) {
	t.Helper()

	createTestToken(t, ctx, pool, tokenID, "SYM"+tokenID)
	require.NoError(t, NewTransactionStore(pool).Insert(ctx, &domain.Transaction{
		ID: txID, TokenID: tokenID, Wallet: "w", Type: domain.TxTypeBuy,
		Amount: 1, Price: 0.01, Fee: 0.0005, Timestamp: 1000,
	}))
}

func testDistribution(id, tokenID, txID string, eligibleAt, createdAt int64) *domain.FeeDistribution {
	return &domain.FeeDistribution{
		ID:            id,
		TokenID:       tokenID,
		TransactionID: txID,
		CreatorWallet: "So11111111111111111111111111111111111111112",
		Amount:        0.0001,
		EligibleAt:    eligibleAt,
		CreatedAt:     createdAt,
	}
}

func TestFeeDistributionStore_InsertAndGetByTokenID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertTradeFixture(t, ctx, pool, "token-1", "tx-1")
	store := NewFeeDistributionStore(pool)

	fd := testDistribution("fd-1", "token-1", "tx-1", 2000, 1000)
	require.NoError(t, store.Insert(ctx, fd))

	dists, err := store.GetByTokenID(ctx, "token-1")
	require.NoError(t, err)

	require.Len(t, dists, 1)
	assert.Equal(t, fd.ID, dists[0].ID)
	assert.Equal(t, fd.TransactionID, dists[0].TransactionID)
	assert.Equal(t, fd.CreatorWallet, dists[0].CreatorWallet)
	assert.InDelta(t, fd.Amount, dists[0].Amount, 1e-9)
	assert.Equal(t, fd.EligibleAt, dists[0].EligibleAt)
	assert.False(t, dists[0].Distributed)
}

func TestFeeDistributionStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertTradeFixture(t, ctx, pool, "token-1", "tx-1")
	store := NewFeeDistributionStore(pool)

	require.NoError(t, store.Insert(ctx, testDistribution("fd-1", "token-1", "tx-1", 2000, 1000)))
	err := store.Insert(ctx, testDistribution("fd-1", "token-1", "tx-1", 3000, 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestFeeDistributionStore_GetClaimable(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertTradeFixture(t, ctx, pool, "token-1", "tx-1")
	store := NewFeeDistributionStore(pool)

	require.NoError(t, store.Insert(ctx, testDistribution("fd-1", "token-1", "tx-1", 1000, 100)))
	require.NoError(t, store.Insert(ctx, testDistribution("fd-2", "token-1", "tx-1", 2000, 200)))
	require.NoError(t, store.Insert(ctx, testDistribution("fd-3", "token-1", "tx-1", 9000, 300)))

	claimable, err := store.GetClaimable(ctx, 2000)
	require.NoError(t, err)

	require.Len(t, claimable, 2)
	assert.Equal(t, "fd-1", claimable[0].ID)
	assert.Equal(t, "fd-2", claimable[1].ID)
}

func TestFeeDistributionStore_MarkDistributedExactlyOnce(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertTradeFixture(t, ctx, pool, "token-1", "tx-1")
	store := NewFeeDistributionStore(pool)

	require.NoError(t, store.Insert(ctx, testDistribution("fd-1", "token-1", "tx-1", 1000, 100)))

	require.NoError(t, store.MarkDistributed(ctx, "fd-1", 5000))

	dists, err := store.GetByTokenID(ctx, "token-1")
	require.NoError(t, err)
	require.Len(t, dists, 1)
	assert.True(t, dists[0].Distributed)
	assert.Equal(t, int64(5000), dists[0].DistributedAt)

	// The flip happens exactly once.
	assert.ErrorIs(t, store.MarkDistributed(ctx, "fd-1", 6000), storage.ErrNotFound)

	claimable, err := store.GetClaimable(ctx, 10_000)
	require.NoError(t, err)
	assert.Empty(t, claimable)
}
