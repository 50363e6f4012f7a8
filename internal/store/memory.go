package store

import (
	"sort"
	"sync"

	"github.com/matthewlshields/jx-42/internal/types"
)

// MemoryMarketStore is an in-memory MarketStore used in tests and as a
// stand-in when persistence is not wanted.
type MemoryMarketStore struct {
	mu     sync.RWMutex
	points map[string]types.PricePoint
}

// NewMemoryMarketStore creates an empty in-memory store.
func NewMemoryMarketStore() *MemoryMarketStore {
	return &MemoryMarketStore{
		points: make(map[string]types.PricePoint),
	}
}

// Save stores points, keeping the first write for each (symbol, date) key.
func (s *MemoryMarketStore) Save(points []types.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		key := p.Symbol + "|" + p.Date
		if _, exists := s.points[key]; !exists {
			s.points[key] = p
		}
	}

	return nil
}

// LoadAll returns every stored point ordered by symbol then date.
func (s *MemoryMarketStore) LoadAll() ([]types.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := make([]types.PricePoint, 0, len(s.points))
	for _, p := range s.points {
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Symbol != points[j].Symbol {
			return points[i].Symbol < points[j].Symbol
		}

		return points[i].Date < points[j].Date
	})

	return points, nil
}
