package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"wybe-engine/internal/storage"
)

// PricePointStore is an in-memory implementation of storage.PricePointStore.
type PricePointStore struct {
	mu   sync.RWMutex
	data map[string]*storage.PricePoint // keyed by composite key
}

// NewPricePointStore creates a new in-memory price point store.
func NewPricePointStore() *PricePointStore {
	return &PricePointStore{
		data: make(map[string]*storage.PricePoint),
	}
}

// pricePointKey generates a unique key for a price point.
func pricePointKey(tokenID string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", tokenID, timestampMs)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (token_id, timestamp_ms).
func (s *PricePointStore) InsertBulk(_ context.Context, points []*storage.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(points))

	for _, p := range points {
		if p == nil || p.TokenID == "" {
			return storage.ErrInvalidInput
		}
		key := pricePointKey(p.TokenID, p.TimestampMs)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		key := pricePointKey(p.TokenID, p.TimestampMs)
		copy := *p
		s.data[key] = &copy
	}

	return nil
}

// GetByTokenID retrieves all points for a token, ordered by timestamp ASC.
func (s *PricePointStore) GetByTokenID(_ context.Context, tokenID string) ([]*storage.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.PricePoint
	for _, p := range s.data {
		if p.TokenID == tokenID {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// GetByTimeRange retrieves points for a token within [start, end] (inclusive).
func (s *PricePointStore) GetByTimeRange(_ context.Context, tokenID string, start, end int64) ([]*storage.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.PricePoint
	for _, p := range s.data {
		if p.TokenID == tokenID && p.TimestampMs >= start && p.TimestampMs <= end {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.PricePointStore = (*PricePointStore)(nil)
