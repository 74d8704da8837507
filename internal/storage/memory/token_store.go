package memory

import (
	"context"
	"sort"
	"sync"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token // keyed by token ID
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data: make(map[string]*domain.Token),
	}
}

// Insert adds a new token. Returns ErrDuplicateKey if id or symbol exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || t.ID == "" || t.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}
	for _, existing := range s.data {
		if existing.Symbol == t.Symbol {
			return storage.ErrDuplicateKey
		}
	}

	copy := *t
	s.data[t.ID] = &copy
	return nil
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(_ context.Context, tokenID string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[tokenID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *t
	return &copy, nil
}

// GetBySymbol retrieves a token by its symbol. Returns ErrNotFound if not exists.
func (s *TokenStore) GetBySymbol(_ context.Context, symbol string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.data {
		if t.Symbol == symbol {
			copy := *t
			return &copy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// List retrieves all tokens, ordered by creation time ASC.
func (s *TokenStore) List(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Token, 0, len(s.data))
	for _, t := range s.data {
		copy := *t
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// UpdateMarketCap sets the token's market cap after a trade.
func (s *TokenStore) UpdateMarketCap(_ context.Context, tokenID string, marketCap float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data[tokenID]
	if !ok {
		return storage.ErrNotFound
	}
	t.MarketCap = marketCap
	return nil
}

// SetLaunched marks the token as launched at the given timestamp (ms).
func (s *TokenStore) SetLaunched(_ context.Context, tokenID string, launchedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data[tokenID]
	if !ok {
		return storage.ErrNotFound
	}
	t.Launched = true
	t.LaunchedAt = launchedAt
	return nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
