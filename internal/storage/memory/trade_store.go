package memory

import (
	"context"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// TradeStore applies a trade's records across the in-memory stores.
// There is no shared transaction to lean on, so a failed step undoes
// the steps that already landed before returning.
type TradeStore struct {
	txs    *TransactionStore
	fees   *FeeDistributionStore
	tokens *TokenStore
}

// NewTradeStore creates a trade store over the given in-memory stores.
func NewTradeStore(txs *TransactionStore, fees *FeeDistributionStore, tokens *TokenStore) *TradeStore {
	return &TradeStore{txs: txs, fees: fees, tokens: tokens}
}

// ApplyTrade inserts the transaction and fee distribution and updates
// the token's market cap. On any failure the records inserted so far
// are removed, so no orphaned transaction or distribution survives.
func (s *TradeStore) ApplyTrade(ctx context.Context, tx *domain.Transaction, fd *domain.FeeDistribution, marketCap float64) error {
	if err := s.txs.Insert(ctx, tx); err != nil {
		return err
	}
	if err := s.fees.Insert(ctx, fd); err != nil {
		s.txs.remove(tx.ID)
		return err
	}
	if err := s.tokens.UpdateMarketCap(ctx, tx.TokenID, marketCap); err != nil {
		s.fees.remove(fd.ID)
		s.txs.remove(tx.ID)
		return err
	}
	return nil
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)
