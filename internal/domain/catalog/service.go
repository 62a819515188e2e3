// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// PriceReconciler is notified after a product's price changes so cached
// line prices in open carts can be brought back in line. Implemented by the
// cart service; wired after construction to avoid a dependency cycle.
type PriceReconciler interface {
	OnPriceChanged(ctx context.Context, productID uint, newSpecialPrice, newDiscount decimal.Decimal) error
}

// Service handles catalog business logic
type Service struct {
	db         *gorm.DB
	log        *logrus.Logger
	reconciler PriceReconciler
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{
		db:  db,
		log: log,
	}
}

// SetPriceReconciler wires the cart-side price reconciler. Must be called
// before UpdatePrice is used.
func (s *Service) SetPriceReconciler(r PriceReconciler) {
	s.reconciler = r
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	SKU             string          `json:"sku" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StockQuantity   int             `json:"stock_quantity"`
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ProductListResponse represents products with pagination
type ProductListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product", "productId", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// ListProducts retrieves products with pagination
func (s *Service) ListProducts(ctx context.Context, req *ProductListRequest) (*ProductListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var products []Product
	var total int64

	query := s.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// CreateProduct creates a new catalog product
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	var existing Product
	if err := s.db.WithContext(ctx).Where("sku = ?", req.SKU).First(&existing).Error; err == nil {
		return nil, apperrors.AlreadyExists("Product", "sku", req.SKU)
	}

	product := &Product{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		StockQuantity:   req.StockQuantity,
		IsActive:        true,
	}
	product.RecalculateSpecialPrice()

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdatePrice changes a product's price and/or discount, recomputes the
// special price, and reconciles every open cart holding the product.
func (s *Service) UpdatePrice(ctx context.Context, id uint, price, discountPercent decimal.Decimal) (*Product, error) {
	var product Product

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Product", "productId", id)
			}
			return fmt.Errorf("failed to retrieve product: %w", err)
		}

		product.Price = price
		product.DiscountPercent = discountPercent
		product.RecalculateSpecialPrice()

		if err := tx.Model(&product).Updates(map[string]interface{}{
			"price":            product.Price,
			"discount_percent": product.DiscountPercent,
			"special_price":    product.SpecialPrice,
		}).Error; err != nil {
			return fmt.Errorf("failed to update product price: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.reconciler != nil {
		if err := s.reconciler.OnPriceChanged(ctx, id, product.SpecialPrice, product.DiscountPercent); err != nil {
			return nil, fmt.Errorf("failed to reconcile cart prices: %w", err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"product_id":    id,
		"special_price": product.SpecialPrice,
	}).Info("Product price updated")

	return &product, nil
}

// DecrementStock atomically takes qty units off a product's stock. The
// conditional update ("decrement iff stock >= qty") is what keeps stock
// non-negative under concurrent checkouts; a plain read-then-write here
// would oversell.
func (s *Service) DecrementStock(ctx context.Context, id uint, qty int, reference string) error {
	if qty <= 0 {
		return apperrors.InvalidQuantity("Product", qty)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Product{}).
			Where("id = ? AND stock_quantity >= ?", id, qty).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
		if result.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			// Either the product is gone or there is not enough stock left.
			var product Product
			if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NotFound("Product", "productId", id)
				}
				return fmt.Errorf("failed to retrieve product: %w", err)
			}
			return apperrors.InsufficientStock("Product", id, product.StockQuantity, qty)
		}

		return s.recordMovement(tx, id, -qty, MovementReasonCheckout, reference)
	})
}

// RestoreStock puts qty units back, used for compensating releases when a
// checkout fails partway through reservation.
func (s *Service) RestoreStock(ctx context.Context, id uint, qty int, reference string) error {
	if qty <= 0 {
		return apperrors.InvalidQuantity("Product", qty)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Product{}).
			Where("id = ?", id).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
		if result.Error != nil {
			return fmt.Errorf("failed to restore stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("Product", "productId", id)
		}

		reason := MovementReasonRelease
		if reference == "" {
			reason = MovementReasonRestock
		}
		return s.recordMovement(tx, id, qty, reason, reference)
	})
}

// recordMovement writes the audit row inside the caller's transaction
func (s *Service) recordMovement(tx *gorm.DB, productID uint, qty int, reason, reference string) error {
	var product Product
	if err := tx.Select("stock_quantity").Where("id = ?", productID).First(&product).Error; err != nil {
		return fmt.Errorf("failed to read stock for movement record: %w", err)
	}

	movement := StockMovement{
		ProductID:        productID,
		Quantity:         qty,
		Reason:           reason,
		Reference:        reference,
		PreviousQuantity: product.StockQuantity - qty,
		NewQuantity:      product.StockQuantity,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}
