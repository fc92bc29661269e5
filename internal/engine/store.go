package engine

import (
	"context"
	"time"

	"github.com/refracc/de-store/internal/model"
	"github.com/shopspring/decimal"
)

// PurchaseRecord is one transaction row as seen by the reporting window.
type PurchaseRecord struct {
	ProductID   uint
	Cost        decimal.Decimal
	PurchasedAt time.Time
}

// TransactionSummary is one row of the recent-transactions listing.
type TransactionSummary struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	CustomerID  uint            `json:"customer_id"`
	Cost        decimal.Decimal `json:"cost"`
	PurchasedAt time.Time       `json:"purchased_at"`
}

// Store is the durable storage collaborator the engine runs against. The
// engine never builds SQL itself; it owns the business invariants and applies
// them through these row-level operations. Implementations return ErrNotFound
// for missing rows and their own errors for I/O failures.
type Store interface {
	GetProduct(ctx context.Context, id uint) (*model.Product, error)

	// DecrementStockAtomic reduces stock by one as a single conditional
	// update, reporting true only if a row with stock > 0 was decremented.
	DecrementStockAtomic(ctx context.Context, id uint) (bool, error)
	SetStock(ctx context.Context, id uint, quantity int) error
	SetPrice(ctx context.Context, id uint, price decimal.Decimal) error

	// ProductIDsWithStockAtMost returns IDs of products whose stock is at or
	// below the threshold, in ascending ID order.
	ProductIDsWithStockAtMost(ctx context.Context, threshold int) ([]uint, error)

	// LatestPromotionForProduct returns the highest-ID promotion row for the
	// product, or nil when the product has never had one.
	LatestPromotionForProduct(ctx context.Context, productID uint) (*model.Promotion, error)
	InsertPromotion(ctx context.Context, productID uint, promoType model.PromotionType) (uint, error)

	GetCustomerLoyalty(ctx context.Context, id uint) (bool, error)
	SetCustomerLoyalty(ctx context.Context, id uint, enrolled bool) error
	CountTransactionsForCustomer(ctx context.Context, id uint) (int64, error)

	InsertTransaction(ctx context.Context, customerID, productID uint, promotionID *uint, cost decimal.Decimal, purchasedAt time.Time) (uint, error)
	TransactionsSince(ctx context.Context, since time.Time) ([]PurchaseRecord, error)
	RecentTransactions(ctx context.Context, n int) ([]TransactionSummary, error)

	// Transact runs fn against a store view whose writes commit together and
	// roll back together if fn returns an error.
	Transact(ctx context.Context, fn func(Store) error) error
}
