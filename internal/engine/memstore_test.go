package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/refracc/de-store/internal/model"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store used by the engine tests. Transact holds
// the store lock for the whole callback, the way a database transaction
// holds its row locks, and restores a snapshot when the callback fails.
type memStore struct {
	mu    sync.Mutex
	state memState

	failInsertTransaction bool
}

type memState struct {
	products     map[uint]*model.Product
	customers    map[uint]*model.Customer
	promotions   []model.Promotion
	transactions []model.Transaction
	nextPromoID  uint
	nextTxID     uint
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		products:  make(map[uint]*model.Product),
		customers: make(map[uint]*model.Customer),
	}}
}

func (m *memStore) addProduct(id uint, name string, stock int, price string) {
	m.state.products[id] = &model.Product{
		ID:    id,
		Name:  name,
		SKU:   fmt.Sprintf("SKU-%d", id),
		Stock: stock,
		Price: decimal.RequireFromString(price),
	}
}

func (m *memStore) addCustomer(id uint, loyal bool) {
	m.state.customers[id] = &model.Customer{ID: id, Name: fmt.Sprintf("customer-%d", id), LoyaltyEnrolled: loyal}
}

func (m *memStore) addTransaction(customerID, productID uint, cost string, at time.Time) {
	m.state.nextTxID++
	m.state.transactions = append(m.state.transactions, model.Transaction{
		ID:          m.state.nextTxID,
		CustomerID:  customerID,
		ProductID:   productID,
		Cost:        decimal.RequireFromString(cost),
		PurchasedAt: at,
	})
}

func (m *memStore) stock(id uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[id].Stock
}

func (m *memStore) transactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.transactions)
}

// Locked wrappers: each public method takes the lock and delegates to the
// unlocked implementation shared with the transaction view.

func (m *memStore) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getProduct(ctx, id)
}

func (m *memStore) DecrementStockAtomic(ctx context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.decrementStockAtomic(ctx, id)
}

func (m *memStore) SetStock(ctx context.Context, id uint, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.setStock(ctx, id, quantity)
}

func (m *memStore) SetPrice(ctx context.Context, id uint, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.setPrice(ctx, id, price)
}

func (m *memStore) ProductIDsWithStockAtMost(ctx context.Context, threshold int) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.productIDsWithStockAtMost(ctx, threshold)
}

func (m *memStore) LatestPromotionForProduct(ctx context.Context, productID uint) (*model.Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.latestPromotionForProduct(ctx, productID)
}

func (m *memStore) InsertPromotion(ctx context.Context, productID uint, promoType model.PromotionType) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.insertPromotion(ctx, productID, promoType)
}

func (m *memStore) GetCustomerLoyalty(ctx context.Context, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.getCustomerLoyalty(ctx, id)
}

func (m *memStore) SetCustomerLoyalty(ctx context.Context, id uint, enrolled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.setCustomerLoyalty(ctx, id, enrolled)
}

func (m *memStore) CountTransactionsForCustomer(ctx context.Context, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.countTransactionsForCustomer(ctx, id)
}

func (m *memStore) InsertTransaction(ctx context.Context, customerID, productID uint, promotionID *uint, cost decimal.Decimal, purchasedAt time.Time) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsertTransaction {
		return 0, errors.New("insert failed")
	}
	return m.state.insertTransaction(ctx, customerID, productID, promotionID, cost, purchasedAt)
}

func (m *memStore) TransactionsSince(ctx context.Context, since time.Time) ([]PurchaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.transactionsSince(ctx, since)
}

func (m *memStore) RecentTransactions(ctx context.Context, n int) ([]TransactionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.recentTransactions(ctx, n)
}

func (m *memStore) Transact(_ context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.state.clone()
	if err := fn(&memView{store: m}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// memView is the transaction-scoped store handed to Transact callbacks. It
// reuses the shared state without locking; the Transact caller holds the lock.
type memView struct {
	store *memStore
}

func (v *memView) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	return v.store.state.getProduct(ctx, id)
}

func (v *memView) DecrementStockAtomic(ctx context.Context, id uint) (bool, error) {
	return v.store.state.decrementStockAtomic(ctx, id)
}

func (v *memView) SetStock(ctx context.Context, id uint, quantity int) error {
	return v.store.state.setStock(ctx, id, quantity)
}

func (v *memView) SetPrice(ctx context.Context, id uint, price decimal.Decimal) error {
	return v.store.state.setPrice(ctx, id, price)
}

func (v *memView) ProductIDsWithStockAtMost(ctx context.Context, threshold int) ([]uint, error) {
	return v.store.state.productIDsWithStockAtMost(ctx, threshold)
}

func (v *memView) LatestPromotionForProduct(ctx context.Context, productID uint) (*model.Promotion, error) {
	return v.store.state.latestPromotionForProduct(ctx, productID)
}

func (v *memView) InsertPromotion(ctx context.Context, productID uint, promoType model.PromotionType) (uint, error) {
	return v.store.state.insertPromotion(ctx, productID, promoType)
}

func (v *memView) GetCustomerLoyalty(ctx context.Context, id uint) (bool, error) {
	return v.store.state.getCustomerLoyalty(ctx, id)
}

func (v *memView) SetCustomerLoyalty(ctx context.Context, id uint, enrolled bool) error {
	return v.store.state.setCustomerLoyalty(ctx, id, enrolled)
}

func (v *memView) CountTransactionsForCustomer(ctx context.Context, id uint) (int64, error) {
	return v.store.state.countTransactionsForCustomer(ctx, id)
}

func (v *memView) InsertTransaction(ctx context.Context, customerID, productID uint, promotionID *uint, cost decimal.Decimal, purchasedAt time.Time) (uint, error) {
	if v.store.failInsertTransaction {
		return 0, errors.New("insert failed")
	}
	return v.store.state.insertTransaction(ctx, customerID, productID, promotionID, cost, purchasedAt)
}

func (v *memView) TransactionsSince(ctx context.Context, since time.Time) ([]PurchaseRecord, error) {
	return v.store.state.transactionsSince(ctx, since)
}

func (v *memView) RecentTransactions(ctx context.Context, n int) ([]TransactionSummary, error) {
	return v.store.state.recentTransactions(ctx, n)
}

func (v *memView) Transact(_ context.Context, fn func(Store) error) error {
	return fn(v)
}

// Unlocked state operations.

func (s *memState) getProduct(_ context.Context, id uint) (*model.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *memState) decrementStockAtomic(_ context.Context, id uint) (bool, error) {
	p, ok := s.products[id]
	if !ok || p.Stock <= 0 {
		return false, nil
	}
	p.Stock--
	return true, nil
}

func (s *memState) setStock(_ context.Context, id uint, quantity int) error {
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	p.Stock = quantity
	return nil
}

func (s *memState) setPrice(_ context.Context, id uint, price decimal.Decimal) error {
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	p.Price = price
	return nil
}

func (s *memState) productIDsWithStockAtMost(_ context.Context, threshold int) ([]uint, error) {
	ids := []uint{}
	for id, p := range s.products {
		if p.Stock <= threshold {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *memState) latestPromotionForProduct(_ context.Context, productID uint) (*model.Promotion, error) {
	var latest *model.Promotion
	for i := range s.promotions {
		p := s.promotions[i]
		if p.ProductID == productID && (latest == nil || p.ID > latest.ID) {
			cp := p
			latest = &cp
		}
	}
	return latest, nil
}

func (s *memState) insertPromotion(_ context.Context, productID uint, promoType model.PromotionType) (uint, error) {
	s.nextPromoID++
	s.promotions = append(s.promotions, model.Promotion{ID: s.nextPromoID, ProductID: productID, Type: promoType})
	return s.nextPromoID, nil
}

func (s *memState) getCustomerLoyalty(_ context.Context, id uint) (bool, error) {
	c, ok := s.customers[id]
	if !ok {
		return false, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return c.LoyaltyEnrolled, nil
}

func (s *memState) setCustomerLoyalty(_ context.Context, id uint, enrolled bool) error {
	c, ok := s.customers[id]
	if !ok {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	c.LoyaltyEnrolled = enrolled
	return nil
}

func (s *memState) countTransactionsForCustomer(_ context.Context, id uint) (int64, error) {
	var count int64
	for _, tx := range s.transactions {
		if tx.CustomerID == id {
			count++
		}
	}
	return count, nil
}

func (s *memState) insertTransaction(_ context.Context, customerID, productID uint, promotionID *uint, cost decimal.Decimal, purchasedAt time.Time) (uint, error) {
	s.nextTxID++
	s.transactions = append(s.transactions, model.Transaction{
		ID:          s.nextTxID,
		CustomerID:  customerID,
		ProductID:   productID,
		PromotionID: promotionID,
		Cost:        cost,
		PurchasedAt: purchasedAt,
	})
	return s.nextTxID, nil
}

func (s *memState) transactionsSince(_ context.Context, since time.Time) ([]PurchaseRecord, error) {
	records := []PurchaseRecord{}
	for _, tx := range s.transactions {
		if tx.PurchasedAt.After(since) {
			records = append(records, PurchaseRecord{ProductID: tx.ProductID, Cost: tx.Cost, PurchasedAt: tx.PurchasedAt})
		}
	}
	return records, nil
}

func (s *memState) recentTransactions(_ context.Context, n int) ([]TransactionSummary, error) {
	txs := make([]model.Transaction, len(s.transactions))
	copy(txs, s.transactions)
	sort.Slice(txs, func(i, j int) bool { return txs[i].PurchasedAt.After(txs[j].PurchasedAt) })
	if len(txs) > n {
		txs = txs[:n]
	}
	summaries := make([]TransactionSummary, 0, len(txs))
	for _, tx := range txs {
		name := ""
		if p, ok := s.products[tx.ProductID]; ok {
			name = p.Name
		}
		summaries = append(summaries, TransactionSummary{
			ID:          tx.ID,
			ProductID:   tx.ProductID,
			ProductName: name,
			CustomerID:  tx.CustomerID,
			Cost:        tx.Cost,
			PurchasedAt: tx.PurchasedAt,
		})
	}
	return summaries, nil
}

func (s *memState) clone() memState {
	c := memState{
		products:     make(map[uint]*model.Product, len(s.products)),
		customers:    make(map[uint]*model.Customer, len(s.customers)),
		promotions:   append([]model.Promotion(nil), s.promotions...),
		transactions: append([]model.Transaction(nil), s.transactions...),
		nextPromoID:  s.nextPromoID,
		nextTxID:     s.nextTxID,
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, cu := range s.customers {
		cc := *cu
		c.customers[id] = &cc
	}
	return c
}

var (
	_ Store = (*memStore)(nil)
	_ Store = (*memView)(nil)
)
