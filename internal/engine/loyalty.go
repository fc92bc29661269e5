package engine

import (
	"context"

	"go.uber.org/zap"
)

// loyaltyPurchaseThreshold is the all-time purchase count a customer must
// exceed before qualifying for the loyalty scheme.
const loyaltyPurchaseThreshold = 2

// CheckLoyaltyEligibility reports whether the customer qualifies for loyalty
// enrollment: strictly more than two transactions ever, and not yet enrolled.
func (e *Engine) CheckLoyaltyEligibility(ctx context.Context, customerID uint) (bool, error) {
	enrolled, err := e.store.GetCustomerLoyalty(ctx, customerID)
	if err != nil {
		return false, storeErr(err)
	}
	if enrolled {
		return false, nil
	}
	count, err := e.store.CountTransactionsForCustomer(ctx, customerID)
	if err != nil {
		return false, storeErr(err)
	}
	return count > loyaltyPurchaseThreshold, nil
}

// EnrollLoyalty places the customer on the loyalty scheme. Enrollment is
// one-way; repeating it reports ErrAlreadyEnrolled rather than silently
// succeeding. Obtaining the customer's consent is the caller's concern.
func (e *Engine) EnrollLoyalty(ctx context.Context, customerID uint) error {
	enrolled, err := e.store.GetCustomerLoyalty(ctx, customerID)
	if err != nil {
		return storeErr(err)
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}
	if err := e.store.SetCustomerLoyalty(ctx, customerID, true); err != nil {
		return storeErr(err)
	}
	e.log.Info("customer enrolled in loyalty scheme", zap.Uint("customer_id", customerID))
	return nil
}
