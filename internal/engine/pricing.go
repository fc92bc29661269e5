package engine

import (
	"github.com/refracc/de-store/internal/model"
	"github.com/shopspring/decimal"
)

var (
	loyaltyDiscount = decimal.RequireFromString("0.90")
	surcharge       = decimal.RequireFromString("1.05")
)

// ComputeCost derives the final charge for one unit: the base price, a 10%
// loyalty discount when enrolled, then a flat 5% surcharge, rounded half up
// to two decimal places. The active promotion rides along on the transaction
// record for delivery/campaign terms but does not change the charged amount.
func ComputeCost(basePrice decimal.Decimal, promo *model.Promotion, loyaltyEnrolled bool) decimal.Decimal {
	cost := basePrice
	if loyaltyEnrolled {
		cost = cost.Mul(loyaltyDiscount)
	}
	return cost.Mul(surcharge).Round(2)
}
