package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of a completed purchase. Cost is the
// final amount actually charged, after loyalty discount and surcharge. Rows
// are never updated or deleted.
type Transaction struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	CustomerID  uint            `json:"customer_id" gorm:"index;not null"`
	ProductID   uint            `json:"product_id" gorm:"index;not null"`
	PromotionID *uint           `json:"promotion_id,omitempty"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(12,2);not null"`
	PurchasedAt time.Time       `json:"purchased_at" gorm:"index;not null"`
}
