package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestockRefillsOnlyEmptyProducts(t *testing.T) {
	store := newMemStore()
	store.addProduct(1, "kettle", 0, "50.00")
	store.addProduct(2, "toaster", 3, "30.00")
	store.addProduct(3, "blender", 0, "80.00")

	eng := newTestEngine(store)

	restocked, err := eng.Restock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, restocked)
	assert.Equal(t, RestockQuantity, store.stock(1))
	assert.Equal(t, 3, store.stock(2), "products with stock are left alone")
	assert.Equal(t, RestockQuantity, store.stock(3))

	// With no purchases in between, a second run finds nothing to do.
	restocked, err = eng.Restock(context.Background())
	require.NoError(t, err)
	assert.Empty(t, restocked)
}

func TestLowStockProducts(t *testing.T) {
	store := newMemStore()
	store.addProduct(4, "kettle", 5, "50.00")
	store.addProduct(1, "toaster", 0, "30.00")
	store.addProduct(2, "blender", 6, "80.00")
	store.addProduct(3, "mixer", 2, "20.00")

	eng := newTestEngine(store)

	ids, err := eng.LowStockProducts(context.Background(), DefaultLowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3, 4}, ids, "ascending IDs, zero-stock included, threshold inclusive")

	ids, err = eng.LowStockProducts(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)

	// Negative threshold falls back to the default.
	ids, err = eng.LowStockProducts(context.Background(), -3)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3, 4}, ids)
}
