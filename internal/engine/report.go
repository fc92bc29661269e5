package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Report summarises the last month of trading. A nil *Report from
// MonthlyReport means no purchases fell inside the window.
type Report struct {
	PurchaseCount        int             `json:"purchase_count"`
	Revenue              decimal.Decimal `json:"revenue"`
	MostPopularProductID uint            `json:"most_popular_product_id"`
}

// MonthlyReport aggregates all transactions with purchasedAt strictly after
// now minus one month: purchase count, revenue sum, and the product with the
// most purchases in the window (ties broken by the lowest product ID).
func (e *Engine) MonthlyReport(ctx context.Context, now time.Time) (*Report, error) {
	rows, err := e.store.TransactionsSince(ctx, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, storeErr(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	revenue := decimal.Zero
	counts := make(map[uint]int)
	for _, r := range rows {
		revenue = revenue.Add(r.Cost)
		counts[r.ProductID]++
	}

	var popular uint
	best := -1
	for id, n := range counts {
		if n > best || (n == best && id < popular) {
			popular, best = id, n
		}
	}

	return &Report{
		PurchaseCount:        len(rows),
		Revenue:              revenue,
		MostPopularProductID: popular,
	}, nil
}

// RecentTransactions lists at most n transaction summaries, newest first.
// Non-positive n yields an empty listing.
func (e *Engine) RecentTransactions(ctx context.Context, n int) ([]TransactionSummary, error) {
	if n <= 0 {
		return []TransactionSummary{}, nil
	}
	summaries, err := e.store.RecentTransactions(ctx, n)
	if err != nil {
		return nil, storeErr(err)
	}
	return summaries, nil
}
