// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// Carts is the slice of the cart service checkout needs
type Carts interface {
	GetCartByEmail(ctx context.Context, email string) (*cart.Cart, error)
	GetCartByID(ctx context.Context, cartID uint) (*cart.Cart, error)
	LockCart(cartID uint) func()
	CheckoutClear(ctx context.Context, c *cart.Cart) error
}

// Catalog is the slice of the catalog service checkout needs
type Catalog interface {
	GetProduct(ctx context.Context, id uint) (*catalog.Product, error)
	DecrementStock(ctx context.Context, id uint, qty int, reference string) error
	RestoreStock(ctx context.Context, id uint, qty int, reference string) error
}

// Addresses resolves shipping addresses for checkout
type Addresses interface {
	ByID(ctx context.Context, addressID uint) (*user.Address, error)
}

// Mailer sends the post-checkout confirmation. Failures are logged, never
// surfaced; the order is already placed.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, summary *Summary, address *user.Address) error
}

// CheckoutRequest carries everything checkout needs. The buyer is named by
// email explicitly; nothing is read from ambient session state.
type CheckoutRequest struct {
	Email            string `json:"email" binding:"required,email"`
	AddressID        uint   `json:"address_id" binding:"required"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
	GatewayName      string `json:"gateway_name"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewayStatus    string `json:"gateway_status"`
	GatewayMessage   string `json:"gateway_message"`
}

// Service coordinates checkout and order reads
type Service struct {
	store   Store
	carts   Carts
	catalog Catalog
	addrs   Addresses
	mailer  Mailer
	log     *logrus.Logger
}

// NewService creates a new order service. mailer may be nil to disable
// confirmation emails.
func NewService(store Store, carts Carts, cat Catalog, addrs Addresses, mailer Mailer, log *logrus.Logger) *Service {
	return &Service{
		store:   store,
		carts:   carts,
		catalog: cat,
		addrs:   addrs,
		mailer:  mailer,
		log:     log,
	}
}

// PlaceOrder turns the buyer's cart into an immutable order, all or
// nothing. Stock is reserved line by line with atomic conditional
// decrements; if any line cannot be reserved, or the order row cannot be
// written, every reservation made so far is released and no order exists.
// Each cart line becomes exactly one order line.
func (s *Service) PlaceOrder(ctx context.Context, req *CheckoutRequest) (*Summary, error) {
	c, err := s.carts.GetCartByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	unlock := s.carts.LockCart(c.ID)
	defer unlock()

	// Re-read under the lock; the cart may have changed since resolution.
	c, err = s.carts.GetCartByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, apperrors.EmptyCart(c.ID)
	}

	address, err := s.addrs.ByID(ctx, req.AddressID)
	if err != nil {
		return nil, err
	}

	orderNumber := newOrderNumber()

	reserved, err := s.reserveStock(ctx, c, orderNumber)
	if err != nil {
		s.releaseStock(ctx, reserved, orderNumber)
		return nil, err
	}

	ord := &Order{
		OrderNumber: orderNumber,
		Email:       req.Email,
		OrderDate:   time.Now().UTC(),
		Status:      StatusAccepted,
		TotalAmount: c.TotalPrice,
		AddressID:   address.ID,
		Items:       make([]OrderItem, 0, len(c.Items)),
		Payment: &Payment{
			Method:           req.PaymentMethod,
			GatewayName:      req.GatewayName,
			GatewayPaymentID: req.GatewayPaymentID,
			GatewayStatus:    req.GatewayStatus,
			GatewayMessage:   req.GatewayMessage,
		},
	}
	for i := range c.Items {
		item := &c.Items[i]
		ord.Items = append(ord.Items, OrderItem{
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			OrderedProductPrice: item.UnitPrice,
			Discount:            item.Discount,
		})
	}

	if err := s.store.Create(ctx, ord); err != nil {
		s.releaseStock(ctx, reserved, orderNumber)
		return nil, err
	}

	if err := s.carts.CheckoutClear(ctx, c); err != nil {
		// The order stands; an unclean cart is recoverable, a dangling
		// reservation is not.
		s.log.WithError(err).WithField("cart_id", c.ID).Error("Failed to clear cart after checkout")
	}

	summary := s.buildSummary(ctx, ord)

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, summary, address); err != nil {
			s.log.WithError(err).WithField("order_number", ord.OrderNumber).Warn("Failed to send order confirmation")
		}
	}

	s.log.WithFields(logrus.Fields{
		"order_number": ord.OrderNumber,
		"email":        ord.Email,
		"total":        ord.TotalAmount,
		"items":        len(ord.Items),
	}).Info("Order placed")

	return summary, nil
}

// reserveStock decrements stock for each cart line in turn. It returns the
// lines already reserved when an error stops it, so the caller can release
// exactly those.
func (s *Service) reserveStock(ctx context.Context, c *cart.Cart, reference string) ([]cart.CartItem, error) {
	reserved := make([]cart.CartItem, 0, len(c.Items))
	for i := range c.Items {
		item := c.Items[i]
		if err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity, reference); err != nil {
			return reserved, err
		}
		reserved = append(reserved, item)
	}
	return reserved, nil
}

// releaseStock compensates failed checkouts by restoring every reserved line
func (s *Service) releaseStock(ctx context.Context, reserved []cart.CartItem, reference string) {
	for i := range reserved {
		item := &reserved[i]
		if err := s.catalog.RestoreStock(ctx, item.ProductID, item.Quantity, reference); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
				"reference":  reference,
			}).Error("Failed to release reserved stock")
		}
	}
}

// GetOrder returns one order by ID
func (s *Service) GetOrder(ctx context.Context, orderID uint) (*Summary, error) {
	ord, err := s.store.ByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, ord), nil
}

// GetOrderByNumber returns one order by its public number
func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Summary, error) {
	ord, err := s.store.ByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, ord), nil
}

// GetOrderEntity returns the raw order aggregate, used for invoice rendering
func (s *Service) GetOrderEntity(ctx context.Context, orderID uint) (*Order, error) {
	return s.store.ByID(ctx, orderID)
}

// GetUserOrders returns one page of a buyer's order history
func (s *Service) GetUserOrders(ctx context.Context, email string, page, limit int) (*HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := s.store.ByEmail(ctx, email, page, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, *s.buildSummary(ctx, &orders[i]))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &HistoryResponse{
		Orders: summaries,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// buildSummary shapes the read model, resolving product names best-effort
func (s *Service) buildSummary(ctx context.Context, ord *Order) *Summary {
	summary := &Summary{
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		Email:       ord.Email,
		OrderDate:   ord.OrderDate,
		Status:      ord.Status,
		TotalAmount: ord.TotalAmount,
		AddressID:   ord.AddressID,
		Items:       make([]ItemSummary, 0, len(ord.Items)),
	}
	for i := range ord.Items {
		item := &ord.Items[i]
		name := ""
		if product, err := s.catalog.GetProduct(ctx, item.ProductID); err == nil {
			name = product.Name
		}
		summary.Items = append(summary.Items, ItemSummary{
			ProductID:           item.ProductID,
			ProductName:         name,
			Quantity:            item.Quantity,
			OrderedProductPrice: item.OrderedProductPrice,
			Discount:            item.Discount,
		})
	}
	if ord.Payment != nil {
		summary.Payment = &PaymentSummary{
			Method:           ord.Payment.Method,
			GatewayName:      ord.Payment.GatewayName,
			GatewayPaymentID: ord.Payment.GatewayPaymentID,
			GatewayStatus:    ord.Payment.GatewayStatus,
			GatewayMessage:   ord.Payment.GatewayMessage,
		}
	}
	return summary
}

// newOrderNumber mints a public order number: ORD-YYYYMMDD-<8 hex chars>
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString()[:8])
}
