package store

import (
	"testing"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveAndLoadAll(t *testing.T) {
	store := NewMemoryMarketStore()
	require.NoError(t, store.Save(storePoints()))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	assert.Equal(t, "AAPL", loaded[0].Symbol)
	assert.Equal(t, "2024-01-02", loaded[0].Date)
	assert.Equal(t, "MSFT", loaded[2].Symbol)
}

func TestMemoryStoreIdempotent(t *testing.T) {
	store := NewMemoryMarketStore()
	require.NoError(t, store.Save(storePoints()))
	require.NoError(t, store.Save(storePoints()))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestMemoryStoreFirstWriteWins(t *testing.T) {
	store := NewMemoryMarketStore()

	require.NoError(t, store.Save([]types.PricePoint{
		{Symbol: "AAPL", Date: "2024-01-02", Close: 104},
	}))
	require.NoError(t, store.Save([]types.PricePoint{
		{Symbol: "AAPL", Date: "2024-01-02", Close: 2},
	}))

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 104.0, loaded[0].Close)
}

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryMarketStore()

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
