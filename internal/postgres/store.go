package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/refracc/de-store/internal/engine"
	"github.com/refracc/de-store/internal/model"
	"github.com/refracc/de-store/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store implements engine.Store on top of a gorm PostgreSQL handle. The
// handle is injected; this package holds no globals.
type Store struct {
	db *gorm.DB
}

// NewStore wraps the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ engine.Store = (*Store)(nil)

// Transact runs fn against a store bound to one database transaction. An
// error from fn rolls every write back.
func (s *Store) Transact(ctx context.Context, fn func(engine.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("get_product")(time.Now())

	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, engine.ErrNotFound)
		}
		return nil, err
	}
	return &product, nil
}

// DecrementStockAtomic is a single conditional update; the stock > 0 guard
// makes concurrent purchases of the last unit race safely at the database.
func (s *Store) DecrementStockAtomic(ctx context.Context, id uint) (bool, error) {
	defer prometheus.TrackDBOperation("decrement_stock")(time.Now())

	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock > 0", id).
		UpdateColumn("stock", gorm.Expr("stock - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) SetStock(ctx context.Context, id uint, quantity int) error {
	defer prometheus.TrackDBOperation("set_stock")(time.Now())

	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, engine.ErrNotFound)
	}
	return nil
}

func (s *Store) SetPrice(ctx context.Context, id uint, price decimal.Decimal) error {
	defer prometheus.TrackDBOperation("set_price")(time.Now())

	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("price", price)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, engine.ErrNotFound)
	}
	return nil
}

func (s *Store) ProductIDsWithStockAtMost(ctx context.Context, threshold int) ([]uint, error) {
	defer prometheus.TrackDBOperation("list_low_stock")(time.Now())

	ids := []uint{}
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("stock <= ?", threshold).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) LatestPromotionForProduct(ctx context.Context, productID uint) (*model.Promotion, error) {
	defer prometheus.TrackDBOperation("latest_promotion")(time.Now())

	var promo model.Promotion
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

func (s *Store) InsertPromotion(ctx context.Context, productID uint, promoType model.PromotionType) (uint, error) {
	defer prometheus.TrackDBOperation("insert_promotion")(time.Now())

	promo := model.Promotion{ProductID: productID, Type: promoType}
	if err := s.db.WithContext(ctx).Create(&promo).Error; err != nil {
		return 0, err
	}
	return promo.ID, nil
}

func (s *Store) GetCustomerLoyalty(ctx context.Context, id uint) (bool, error) {
	defer prometheus.TrackDBOperation("get_customer_loyalty")(time.Now())

	var customer model.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("customer %d: %w", id, engine.ErrNotFound)
		}
		return false, err
	}
	return customer.LoyaltyEnrolled, nil
}

func (s *Store) SetCustomerLoyalty(ctx context.Context, id uint, enrolled bool) error {
	defer prometheus.TrackDBOperation("set_customer_loyalty")(time.Now())

	result := s.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", id).
		Update("loyalty_enrolled", enrolled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", id, engine.ErrNotFound)
	}
	return nil
}

func (s *Store) CountTransactionsForCustomer(ctx context.Context, id uint) (int64, error) {
	defer prometheus.TrackDBOperation("count_transactions")(time.Now())

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("customer_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) InsertTransaction(ctx context.Context, customerID, productID uint, promotionID *uint, cost decimal.Decimal, purchasedAt time.Time) (uint, error) {
	defer prometheus.TrackDBOperation("insert_transaction")(time.Now())

	tx := model.Transaction{
		CustomerID:  customerID,
		ProductID:   productID,
		PromotionID: promotionID,
		Cost:        cost,
		PurchasedAt: purchasedAt,
	}
	if err := s.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return 0, err
	}
	return tx.ID, nil
}

func (s *Store) TransactionsSince(ctx context.Context, since time.Time) ([]engine.PurchaseRecord, error) {
	defer prometheus.TrackDBOperation("transactions_since")(time.Now())

	var rows []model.Transaction
	err := s.db.WithContext(ctx).
		Where("purchased_at > ?", since).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]engine.PurchaseRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, engine.PurchaseRecord{
			ProductID:   r.ProductID,
			Cost:        r.Cost,
			PurchasedAt: r.PurchasedAt,
		})
	}
	return records, nil
}

func (s *Store) RecentTransactions(ctx context.Context, n int) ([]engine.TransactionSummary, error) {
	defer prometheus.TrackDBOperation("recent_transactions")(time.Now())

	summaries := []engine.TransactionSummary{}
	err := s.db.WithContext(ctx).Table("transactions").
		Select("transactions.id, transactions.product_id, products.name AS product_name, transactions.customer_id, transactions.cost, transactions.purchased_at").
		Joins("JOIN products ON products.id = transactions.product_id").
		Order("transactions.purchased_at DESC").
		Limit(n).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
