// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Store is the persistence boundary for cart aggregates. Save persists the
// whole aggregate explicitly: the cart row, every current item, and the
// removal of items no longer present. Nothing cascades implicitly.
type Store interface {
	ByID(ctx context.Context, cartID uint) (*Cart, error)
	ByUserID(ctx context.Context, userID uint) (*Cart, error)
	ByEmail(ctx context.Context, email string) (*Cart, error)
	WithProduct(ctx context.Context, productID uint) ([]uint, error)
	List(ctx context.Context) ([]Cart, error)
	Create(ctx context.Context, cart *Cart) error
	Save(ctx context.Context, cart *Cart) error
}

// GormStore implements Store on PostgreSQL via GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed cart store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ByID loads a cart and its items by cart ID
func (s *GormStore) ByID(ctx context.Context, cartID uint) (*Cart, error) {
	var cart Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", cartID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Cart", "cartId", cartID)
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &cart, nil
}

// ByUserID loads a user's cart and its items
func (s *GormStore) ByUserID(ctx context.Context, userID uint) (*Cart, error) {
	var cart Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Cart", "userId", userID)
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &cart, nil
}

// ByEmail resolves the owning user by email and loads that user's cart
func (s *GormStore) ByEmail(ctx context.Context, email string) (*Cart, error) {
	var cart Cart
	err := s.db.WithContext(ctx).Preload("Items").
		Joins("JOIN users ON users.id = carts.user_id").
		Where("users.email = ?", email).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Cart", "email", email)
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &cart, nil
}

// WithProduct returns the IDs of every cart currently holding productID
func (s *GormStore) WithProduct(ctx context.Context, productID uint) ([]uint, error) {
	var cartIDs []uint
	err := s.db.WithContext(ctx).Model(&CartItem{}).
		Where("product_id = ?", productID).
		Distinct().
		Pluck("cart_id", &cartIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find carts holding product: %w", err)
	}
	return cartIDs, nil
}

// List returns all carts with their items
func (s *GormStore) List(ctx context.Context) ([]Cart, error) {
	var carts []Cart
	if err := s.db.WithContext(ctx).Preload("Items").Order("id").Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	return carts, nil
}

// Create inserts a new empty cart. The unique index on user_id turns a
// concurrent duplicate into an AlreadyExists error the caller can retry on.
func (s *GormStore) Create(ctx context.Context, cart *Cart) error {
	if err := s.db.WithContext(ctx).Create(cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.AlreadyExists("Cart", "userId", cart.UserID)
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// Save persists the aggregate in one transaction: the cart row, upserts for
// every item still present, and deletion of rows dropped from the slice.
func (s *GormStore) Save(ctx context.Context, cart *Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Cart{}).Where("id = ?", cart.ID).
			Update("total_price", cart.TotalPrice).Error; err != nil {
			return fmt.Errorf("failed to save cart: %w", err)
		}

		keep := make([]uint, 0, len(cart.Items))
		for i := range cart.Items {
			item := &cart.Items[i]
			item.CartID = cart.ID
			if err := tx.Save(item).Error; err != nil {
				return fmt.Errorf("failed to save cart item: %w", err)
			}
			keep = append(keep, item.ProductID)
		}

		del := tx.Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			del = del.Where("product_id NOT IN ?", keep)
		}
		if err := del.Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to remove stale cart items: %w", err)
		}

		return nil
	})
}
