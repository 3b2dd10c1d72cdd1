package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trade-journal/internal/models"
)

// MemoryStore keeps trades in a map. It backs tests and the "memory" driver.
type MemoryStore struct {
	mu     sync.RWMutex
	trades map[string]models.TradeRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trades: make(map[string]models.TradeRecord)}
}

// Create validates and stores a trade under a new id.
func (s *MemoryStore) Create(_ context.Context, input models.TradeInput) (models.TradeRecord, error) {
	rec, err := newRecord(input, time.Now().UTC())
	if err != nil {
		return models.TradeRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades[rec.ID] = rec
	return rec, nil
}

// Get returns one trade by id.
func (s *MemoryStore) Get(_ context.Context, id string) (models.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.trades[id]
	if !ok {
		return models.TradeRecord{}, notFound("get", id)
	}
	return rec, nil
}

// List returns an owner's trades, most recent trading day first.
func (s *MemoryStore) List(_ context.Context, ownerID string, filter TradeFilter) ([]models.TradeRecord, error) {
	filter.Symbol = strings.ToUpper(filter.Symbol)

	s.mu.RLock()
	out := make([]models.TradeRecord, 0, len(s.trades))
	for _, t := range s.trades {
		if t.OwnerID == ownerID && filter.matches(t) {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.TradeDate.Equal(b.TradeDate) {
			return a.TradeDate.After(b.TradeDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Update applies patch to the trade and recomputes its P&L.
func (s *MemoryStore) Update(_ context.Context, id string, patch models.TradePatch) (models.TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.trades[id]
	if !ok {
		return models.TradeRecord{}, notFound("update", id)
	}
	rec, err := applyPatch(current, patch, time.Now().UTC())
	if err != nil {
		return models.TradeRecord{}, err
	}
	s.trades[id] = rec
	return rec, nil
}

// Delete removes a trade.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trades[id]; !ok {
		return notFound("delete", id)
	}
	delete(s.trades, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
