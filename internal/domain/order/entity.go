// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. Orders are accepted at checkout and move forward
// from there; the snapshot fields below never change after creation.
const (
	StatusAccepted  = "Accepted"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Order is the immutable record of a completed checkout. Prices and
// quantities are copied from the cart at checkout time; later catalog
// changes never touch them.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	Email       string          `gorm:"not null;index;size:255" json:"email"`
	OrderDate   time.Time       `gorm:"not null" json:"order_date"`
	Status      string          `gorm:"not null;size:50" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	AddressID   uint            `gorm:"not null" json:"address_id"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Payment     *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem is one purchased line, frozen at checkout
type OrderItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	OrderID             uint            `gorm:"not null;index" json:"order_id"`
	ProductID           uint            `gorm:"not null" json:"product_id"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	OrderedProductPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"ordered_product_price"`
	Discount            decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount"`
	CreatedAt           time.Time       `json:"created_at"`
}

// Payment records how the order was paid, one row per order
type Payment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Method           string    `gorm:"not null;size:50" json:"method"`
	GatewayName      string    `gorm:"size:100" json:"gateway_name"`
	GatewayPaymentID string    `gorm:"size:255" json:"gateway_payment_id"`
	GatewayStatus    string    `gorm:"size:100" json:"gateway_status"`
	GatewayMessage   string    `gorm:"size:255" json:"gateway_message"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
func (Payment) TableName() string   { return "payments" }

// Summary is the read model returned after checkout and on order lookups
type Summary struct {
	OrderID     uint            `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	OrderDate   time.Time       `json:"order_date"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AddressID   uint            `json:"address_id"`
	Items       []ItemSummary   `json:"items"`
	Payment     *PaymentSummary `json:"payment,omitempty"`
}

// ItemSummary is one frozen order line in the read model
type ItemSummary struct {
	ProductID           uint            `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Quantity            int             `json:"quantity"`
	OrderedProductPrice decimal.Decimal `json:"ordered_product_price"`
	Discount            decimal.Decimal `json:"discount"`
}

// PaymentSummary mirrors the payment row in the read model
type PaymentSummary struct {
	Method           string `json:"method"`
	GatewayName      string `json:"gateway_name"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewayStatus    string `json:"gateway_status"`
	GatewayMessage   string `json:"gateway_message"`
}

// Pagination is the page envelope for order history listings
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// HistoryResponse is a page of a user's past orders
type HistoryResponse struct {
	Orders     []Summary  `json:"orders"`
	Pagination Pagination `json:"pagination"`
}
