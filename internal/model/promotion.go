package model

import (
	"fmt"
	"time"
)

// PromotionType identifies the campaign terms attached to a product.
type PromotionType string

const (
	PromotionThreeForTwo      PromotionType = "THREE_FOR_TWO"
	PromotionBuyOneGetOneFree PromotionType = "BOGO"
	PromotionFreeDelivery     PromotionType = "FREE_DELIVERY"
)

// ParsePromotionType validates a promotion type coming from the API.
func ParsePromotionType(s string) (PromotionType, error) {
	switch PromotionType(s) {
	case PromotionThreeForTwo, PromotionBuyOneGetOneFree, PromotionFreeDelivery:
		return PromotionType(s), nil
	}
	return "", fmt.Errorf("unknown promotion type %q", s)
}

// Promotion represents a campaign applied to a product. Rows are never
// deleted; the row with the highest ID for a product is the active one.
type Promotion struct {
	ID        uint          `json:"id" gorm:"primarykey"`
	ProductID uint          `json:"product_id" gorm:"index;not null"`
	Type      PromotionType `json:"type" gorm:"type:varchar(32);not null"`
	CreatedAt time.Time     `json:"created_at"`
}
