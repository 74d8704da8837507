package memory

import (
	"context"
	"sort"
	"sync"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Transaction // keyed by transaction ID
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// Insert adds a new transaction. Returns ErrDuplicateKey if id exists.
func (s *TransactionStore) Insert(_ context.Context, tx *domain.Transaction) error {
	if tx == nil || tx.ID == "" || tx.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[tx.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *tx
	s.data[tx.ID] = &copy
	return nil
}

// GetByTokenID retrieves all transactions for a token, ordered by timestamp ASC.
func (s *TransactionStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.TokenID == tokenID {
			copy := *tx
			result = append(result, &copy)
		}
	}

	sortTransactions(result)
	return result, nil
}

// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(_ context.Context, wallet string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.Wallet == wallet {
			copy := *tx
			result = append(result, &copy)
		}
	}

	sortTransactions(result)
	return result, nil
}

// GetByTimeRange retrieves transactions for a token within [start, end] (inclusive).
func (s *TransactionStore) GetByTimeRange(_ context.Context, tokenID string, start, end int64) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, tx := range s.data {
		if tx.TokenID == tokenID && tx.Timestamp >= start && tx.Timestamp <= end {
			copy := *tx
			result = append(result, &copy)
		}
	}

	sortTransactions(result)
	return result, nil
}

// remove deletes a transaction. Used by TradeStore to undo a partial
// trade write.
func (s *TransactionStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

func sortTransactions(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp != txs[j].Timestamp {
			return txs[i].Timestamp < txs[j].Timestamp
		}
		return txs[i].ID < txs[j].ID
	})
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
