// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AutoMigrate runs schema migration for every domain entity
func (d *DB) AutoMigrate() error {
	models := []interface{}{
		&user.User{},
		&user.Address{},
		&catalog.Product{},
		&catalog.StockMovement{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&order.Payment{},
	}

	if err := d.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return d.createIndexes()
}

// createIndexes adds indexes GORM tags do not cover
func (d *DB) createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_email_date ON orders (email, order_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements (product_id, created_at DESC)",
	}

	for _, idx := range indexes {
		if err := d.DB.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// SeedInitialData loads a development dataset: an admin account and a few
// products. Runs only when the tables are empty.
func (d *DB) SeedInitialData(cfg *config.Config) error {
	if !cfg.IsDevelopment() {
		return nil
	}

	var userCount int64
	if err := d.DB.Model(&user.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		hash, err := auth.HashPassword("admin12345", cfg.Security.BcryptCost)
		if err != nil {
			return err
		}
		admin := user.User{
			Email:     "admin@example.com",
			Password:  hash,
			FirstName: "Admin",
			IsAdmin:   true,
			IsActive:  true,
		}
		if err := d.DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	var productCount int64
	if err := d.DB.Model(&catalog.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount == 0 {
		products := []catalog.Product{
			{SKU: "SKU-TSHIRT-01", Name: "Classic T-Shirt", Price: decimal.NewFromFloat(19.99), StockQuantity: 100, IsActive: true},
			{SKU: "SKU-MUG-01", Name: "Ceramic Mug", Price: decimal.NewFromFloat(9.50), DiscountPercent: decimal.NewFromInt(10), StockQuantity: 250, IsActive: true},
			{SKU: "SKU-HOODIE-01", Name: "Zip Hoodie", Price: decimal.NewFromFloat(49.00), StockQuantity: 40, IsActive: true},
		}
		for i := range products {
			products[i].RecalculateSpecialPrice()
			if err := d.DB.Create(&products[i]).Error; err != nil {
				return fmt.Errorf("failed to seed product: %w", err)
			}
		}
	}

	return nil
}
