// Package store persists price points. The core treats the store as a
// simple load-all/save-all collaborator; saving an already-persisted
// (symbol, date) point is a no-op rather than a duplicate or an error.
package store

import "github.com/matthewlshields/jx-42/internal/types"

// MarketStore is the persistence collaborator for price history.
type MarketStore interface {
	// LoadAll returns every stored point ordered by symbol then date.
	LoadAll() ([]types.PricePoint, error)
	// Save persists points, idempotent under duplicate (symbol, date) keys.
	Save(points []types.PricePoint) error
}
