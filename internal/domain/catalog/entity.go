// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog product. Stock lives here; carts and orders
// only hold references and price snapshots.
type Product struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SKU             string          `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name            string          `gorm:"not null;size:255" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percent"`
	SpecialPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"special_price"`
	StockQuantity   int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockMovement is an audit row recorded for every stock mutation, so each
// checkout decrement and compensating restore is traceable.
type StockMovement struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ProductID        uint      `gorm:"not null;index" json:"product_id"`
	Quantity         int       `gorm:"not null" json:"quantity"` // negative for outbound
	Reason           string    `gorm:"not null;size:50" json:"reason"`
	Reference        string    `gorm:"size:100;index" json:"reference"` // checkout reference, restock note
	PreviousQuantity int       `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int       `gorm:"not null" json:"new_quantity"`
	CreatedAt        time.Time `json:"created_at"`
}

// Movement reasons
const (
	MovementReasonCheckout = "checkout"
	MovementReasonRelease  = "release"
	MovementReasonRestock  = "restock"
)

// TableName overrides
func (Product) TableName() string       { return "products" }
func (StockMovement) TableName() string { return "stock_movements" }

var oneHundred = decimal.NewFromInt(100)

// RecalculateSpecialPrice derives the price actually charged:
// price - price*discountPercent/100, rounded to cents.
func (p *Product) RecalculateSpecialPrice() {
	discount := p.Price.Mul(p.DiscountPercent).Div(oneHundred)
	p.SpecialPrice = p.Price.Sub(discount).Round(2)
}

// IsInStock reports whether any quantity remains
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}
