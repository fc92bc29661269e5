package engine

import (
	"context"
	"errors"
	"time"

	"github.com/refracc/de-store/internal/auth"
	"github.com/refracc/de-store/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine is the retail transaction engine: purchasing, loyalty, restocking
// and reporting against an injected Store. It holds no state of its own.
type Engine struct {
	store Store
	auth  auth.Authorizer
	log   *zap.Logger
	now   func() time.Time
}

// New constructs an engine around the given store and authorization policy.
func New(store Store, authorizer auth.Authorizer, log *zap.Logger) *Engine {
	return &Engine{
		store: store,
		auth:  authorizer,
		log:   log,
		now:   time.Now,
	}
}

// Receipt describes a completed purchase.
type Receipt struct {
	TransactionID uint                 `json:"transaction_id"`
	ProductID     uint                 `json:"product_id"`
	CustomerID    uint                 `json:"customer_id"`
	Cost          decimal.Decimal      `json:"cost"`
	PromotionType *model.PromotionType `json:"promotion_type,omitempty"`
	PurchasedAt   time.Time            `json:"purchased_at"`
}

// Purchase runs the full purchase sequence for one unit of a product:
// stock decrement, price computation, transaction recording. The three steps
// execute inside a single store transaction, so a failure after the decrement
// rolls the stock back instead of leaving an unrecorded sale.
func (e *Engine) Purchase(ctx context.Context, customerID, productID uint) (*Receipt, error) {
	var receipt *Receipt
	err := e.store.Transact(ctx, func(s Store) error {
		product, err := s.GetProduct(ctx, productID)
		if err != nil {
			return storeErr(err)
		}
		loyal, err := s.GetCustomerLoyalty(ctx, customerID)
		if err != nil {
			return storeErr(err)
		}

		ok, err := s.DecrementStockAtomic(ctx, productID)
		if err != nil {
			return storeErr(err)
		}
		if !ok {
			return ErrOutOfStock
		}

		// Past this point stock has been taken. Any failure below is logged
		// with enough detail to reconcile by hand, then rolled back by the
		// surrounding transaction.
		promo, err := s.LatestPromotionForProduct(ctx, productID)
		if err != nil {
			return e.reconcileErr(customerID, productID, err)
		}

		cost := ComputeCost(product.Price, promo, loyal)
		purchasedAt := e.now()

		var promotionID *uint
		if promo != nil {
			promotionID = &promo.ID
		}
		txID, err := s.InsertTransaction(ctx, customerID, productID, promotionID, cost, purchasedAt)
		if err != nil {
			return e.reconcileErr(customerID, productID, err)
		}

		receipt = &Receipt{
			TransactionID: txID,
			ProductID:     productID,
			CustomerID:    customerID,
			Cost:          cost,
			PurchasedAt:   purchasedAt,
		}
		if promo != nil {
			receipt.PromotionType = &promo.Type
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("purchase recorded",
		zap.Uint("transaction_id", receipt.TransactionID),
		zap.Uint("customer_id", customerID),
		zap.Uint("product_id", productID),
		zap.String("cost", receipt.Cost.StringFixed(2)))
	return receipt, nil
}

func (e *Engine) reconcileErr(customerID, productID uint, cause error) error {
	e.log.Error("purchase failed after stock decrement",
		zap.Uint("customer_id", customerID),
		zap.Uint("product_id", productID),
		zap.Time("at", e.now()),
		zap.Error(cause))
	return errors.Join(ErrInconsistentState, cause)
}
