package postgres_test

import (
	. "wybe-engine/internal/storage/postgres"

	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wybe-engine/internal/storage"
)

func TestTradeStore_ApplyTrade(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tokenID := createTestToken(t, ctx, pool, "token-1", "AAA")
	store := NewTradeStore(pool)

	tx := testTransaction("tx-1", tokenID, "wallet-1", 1700000001000)
	fd := testDistribution("fd-1", tokenID, tx.ID, 1700000002000, 1700000001000)
	require.NoError(t, store.ApplyTrade(ctx, tx, fd, 2.0))

	txs, err := NewTransactionStore(pool).GetByTokenID(ctx, tokenID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)

	dists, err := NewFeeDistributionStore(pool).GetByTokenID(ctx, tokenID)
	require.NoError(t, err)
	require.Len(t, dists, 1)
	assert.Equal(t, tx.ID, dists[0].TransactionID)

	token, err := NewTokenStore(pool).GetByID(ctx, tokenID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, token.MarketCap, 0.0001)
}

func TestTradeStore_FailedApplyWritesNothing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	tokenID := createTestToken(t, ctx, pool, "token-1", "AAA")
	store := NewTradeStore(pool)

	// Occupy the distribution id so the second insert inside the
	// transaction fails.
	seedTx := testTransaction("tx-0", tokenID, "wallet-1", 1700000000000)
	seedFd := testDistribution("fd-1", tokenID, seedTx.ID, 1700000001000, 1700000000000)
	require.NoError(t, store.ApplyTrade(ctx, seedTx, seedFd, 1.0))

	tx := testTransaction("tx-1", tokenID, "wallet-1", 1700000001000)
	fd := testDistribution("fd-1", tokenID, tx.ID, 1700000002000, 1700000001000)
	err := store.ApplyTrade(ctx, tx, fd, 2.0)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The transaction insert rolled back with the failed distribution.
	txs, err := NewTransactionStore(pool).GetByTokenID(ctx, tokenID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "tx-0", txs[0].ID)

	token, err := NewTokenStore(pool).GetByID(ctx, tokenID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, token.MarketCap, 0.0001)
}

func TestTradeStore_UnknownTokenWritesNothing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	createTestToken(t, ctx, pool, "token-1", "AAA")
	store := NewTradeStore(pool)

	tx := testTransaction("tx-1", "token-missing", "wallet-1", 1700000001000)
	fd := testDistribution("fd-1", "token-missing", tx.ID, 1700000002000, 1700000001000)
	err := store.ApplyTrade(ctx, tx, fd, 2.0)
	assert.Error(t, err)

	txs, qerr := NewTransactionStore(pool).GetByTokenID(ctx, "token-missing")
	require.NoError(t, qerr)
	assert.Empty(t, txs)
}
