package engine

import "errors"

// Expected, recoverable outcomes the caller can act on, plus the two failure
// classes that need operator attention. Callers discriminate with errors.Is.
var (
	// ErrNotFound means a referenced product or customer does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOutOfStock means a purchase was attempted on a zero-stock product.
	ErrOutOfStock = errors.New("out of stock")

	// ErrAlreadyEnrolled means the customer is already on the loyalty scheme.
	ErrAlreadyEnrolled = errors.New("already enrolled in loyalty scheme")

	// ErrStoreUnavailable wraps any store I/O failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInconsistentState means a purchase failed after the stock decrement
	// succeeded. The store transaction rolls the decrement back, but the
	// condition is still logged and surfaced for manual reconciliation.
	ErrInconsistentState = errors.New("inconsistent state: stock decremented but purchase not recorded")

	// ErrNotAuthorized means the principal may not perform the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidPrice means a negative price was supplied.
	ErrInvalidPrice = errors.New("price must not be negative")
)

func storeErr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return errors.Join(ErrStoreUnavailable, err)
}
