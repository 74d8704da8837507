package memory

import (
	"context"
	"sort"
	"sync"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// FeeDistributionStore is an in-memory implementation of storage.FeeDistributionStore.
type FeeDistributionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeeDistribution // keyed by distribution ID
}

// NewFeeDistributionStore creates a new in-memory fee distribution store.
func NewFeeDistributionStore() *FeeDistributionStore {
	return &FeeDistributionStore{
		data: make(map[string]*domain.FeeDistribution),
	}
}

// Insert adds a new fee distribution. Returns ErrDuplicateKey if id exists.
func (s *FeeDistributionStore) Insert(_ context.Context, fd *domain.FeeDistribution) error {
	if fd == nil || fd.ID == "" || fd.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[fd.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *fd
	s.data[fd.ID] = &copy
	return nil
}

// GetByTokenID retrieves all distributions for a token, ordered by creation ASC.
func (s *FeeDistributionStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.FeeDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeeDistribution
	for _, fd := range s.data {
		if fd.TokenID == tokenID {
			copy := *fd
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// GetClaimable retrieves undistributed records whose eligibility timestamp
// is at or before now (ms), ordered by eligibility ASC.
func (s *FeeDistributionStore) GetClaimable(_ context.Context, now int64) ([]*domain.FeeDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeeDistribution
	for _, fd := range s.data {
		if !fd.Distributed && fd.EligibleAt <= now {
			copy := *fd
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].EligibleAt != result[j].EligibleAt {
			return result[i].EligibleAt < result[j].EligibleAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// MarkDistributed flips distributed false -> true exactly once.
func (s *FeeDistributionStore) MarkDistributed(_ context.Context, id string, distributedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fd, ok := s.data[id]
	if !ok || fd.Distributed {
		return storage.ErrNotFound
	}
	fd.Distributed = true
	fd.DistributedAt = distributedAt
	return nil
}

// remove deletes a distribution. Used by TradeStore to undo a partial
// trade write.
func (s *FeeDistributionStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

var _ storage.FeeDistributionStore = (*FeeDistributionStore)(nil)
