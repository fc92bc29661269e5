package engine

import (
	"context"

	"github.com/refracc/de-store/internal/auth"
	"github.com/refracc/de-store/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductDetail pairs a product with its active promotion, if any.
type ProductDetail struct {
	Product   *model.Product   `json:"product"`
	Promotion *model.Promotion `json:"active_promotion,omitempty"`
}

// GetProduct returns the product together with its active promotion.
func (e *Engine) GetProduct(ctx context.Context, productID uint) (*ProductDetail, error) {
	product, err := e.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}
	promo, err := e.store.LatestPromotionForProduct(ctx, productID)
	if err != nil {
		return nil, storeErr(err)
	}
	return &ProductDetail{Product: product, Promotion: promo}, nil
}

// ChangePrice updates a product's unit price. The principal must be
// authorized for price changes; negative prices are rejected.
func (e *Engine) ChangePrice(ctx context.Context, principal string, productID uint, price decimal.Decimal) error {
	if !e.auth.Authorize(auth.ActionChangePrice, principal) {
		e.log.Warn("price change rejected",
			zap.String("principal", principal),
			zap.Uint("product_id", productID))
		return ErrNotAuthorized
	}
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if err := e.store.SetPrice(ctx, productID, price); err != nil {
		return storeErr(err)
	}
	e.log.Info("product price changed",
		zap.Uint("product_id", productID),
		zap.String("price", price.StringFixed(2)))
	return nil
}

// ApplyPromotion attaches a new promotion row to the product, superseding any
// earlier one as the active promotion.
func (e *Engine) ApplyPromotion(ctx context.Context, productID uint, promoType model.PromotionType) (uint, error) {
	if _, err := e.store.GetProduct(ctx, productID); err != nil {
		return 0, storeErr(err)
	}
	id, err := e.store.InsertPromotion(ctx, productID, promoType)
	if err != nil {
		return 0, storeErr(err)
	}
	e.log.Info("promotion applied",
		zap.Uint("product_id", productID),
		zap.String("type", string(promoType)),
		zap.Uint("promotion_id", id))
	return id, nil
}
