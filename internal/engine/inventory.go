package engine

import (
	"context"

	"go.uber.org/zap"
)

const (
	// RestockQuantity is one case of product, the fixed replenishment amount
	// applied to every out-of-stock item.
	RestockQuantity = 24

	// DefaultLowStockThreshold is the stock level at or below which a product
	// shows up on the low-stock report.
	DefaultLowStockThreshold = 5
)

// Restock scans the catalog for zero-stock products and sets each back to a
// full case. It returns the restocked product IDs in ascending order; with no
// intervening purchases a second run restocks nothing.
func (e *Engine) Restock(ctx context.Context) ([]uint, error) {
	var restocked []uint
	err := e.store.Transact(ctx, func(s Store) error {
		ids, err := s.ProductIDsWithStockAtMost(ctx, 0)
		if err != nil {
			return storeErr(err)
		}
		for _, id := range ids {
			if err := s.SetStock(ctx, id, RestockQuantity); err != nil {
				return storeErr(err)
			}
		}
		restocked = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(restocked) > 0 {
		e.log.Info("restocked out-of-stock products",
			zap.Int("count", len(restocked)),
			zap.Uints("product_ids", restocked))
	}
	return restocked, nil
}

// LowStockProducts returns IDs of products whose stock is at or below the
// threshold, ascending. A threshold below zero falls back to the default.
func (e *Engine) LowStockProducts(ctx context.Context, threshold int) ([]uint, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	ids, err := e.store.ProductIDsWithStockAtMost(ctx, threshold)
	if err != nil {
		return nil, storeErr(err)
	}
	return ids, nil
}
