// internal/domain/order/store.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Store is the persistence boundary for orders. Create writes the order,
// its items, and its payment row in one transaction; there is no implicit
// cascading from the order entity.
type Store interface {
	Create(ctx context.Context, order *Order) error
	ByID(ctx context.Context, orderID uint) (*Order, error)
	ByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ByEmail(ctx context.Context, email string, page, limit int) ([]Order, int64, error)
}

// GormStore implements Store on PostgreSQL via GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed order store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create persists the full order aggregate in one transaction
func (s *GormStore) Create(ctx context.Context, order *Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := order.Payment
		items := order.Items
		order.Payment = nil
		order.Items = nil

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		if payment != nil {
			payment.OrderID = order.ID
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create payment record: %w", err)
			}
		}

		order.Items = items
		order.Payment = payment
		return nil
	})
}

// ByID loads an order with its items and payment
func (s *GormStore) ByID(ctx context.Context, orderID uint) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).Preload("Items").Preload("Payment").
		Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order", "orderId", orderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// ByNumber loads an order by its public order number
func (s *GormStore) ByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).Preload("Items").Preload("Payment").
		Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Order", "orderNumber", orderNumber)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// ByEmail returns one page of a buyer's orders, newest first
func (s *GormStore) ByEmail(ctx context.Context, email string, page, limit int) ([]Order, int64, error) {
	var orders []Order
	var total int64

	query := s.db.WithContext(ctx).Model(&Order{}).Where("email = ?", email)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	err := query.Preload("Items").Preload("Payment").
		Order("order_date DESC").Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return orders, total, nil
}
