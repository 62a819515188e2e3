// internal/domain/order/mocks_test.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"github.com/your-org/storefront-backend/internal/pkg/keymutex"
)

// memOrderStore is an in-memory order Store
type memOrderStore struct {
	mu       sync.Mutex
	orders   map[uint]*Order
	byNumber map[string]uint
	nextID   uint
	failNext bool
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{
		orders:   make(map[uint]*Order),
		byNumber: make(map[string]uint),
	}
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Items = make([]OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	if o.Payment != nil {
		p := *o.Payment
		cp.Payment = &p
	}
	return &cp
}

func (s *memOrderStore) Create(ctx context.Context, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return errors.New("simulated storage failure")
	}
	s.nextID++
	order.ID = s.nextID
	s.orders[order.ID] = cloneOrder(order)
	s.byNumber[order.OrderNumber] = order.ID
	return nil
}

func (s *memOrderStore) ByID(ctx context.Context, orderID uint) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperrors.NotFound("Order", "orderId", orderID)
	}
	return cloneOrder(o), nil
}

func (s *memOrderStore) ByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	s.mu.Lock()
	id, ok := s.byNumber[orderNumber]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.NotFound("Order", "orderNumber", orderNumber)
	}
	return s.ByID(ctx, id)
}

func (s *memOrderStore) ByEmail(ctx context.Context, email string, page, limit int) ([]Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []Order
	for id := uint(1); id <= s.nextID; id++ {
		if o, ok := s.orders[id]; ok && o.Email == email {
			matched = append(matched, *cloneOrder(o))
		}
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *memOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// fakeCarts is an in-memory Carts collaborator
type fakeCarts struct {
	mu      sync.Mutex
	byEmail map[string]uint
	carts   map[uint]*cart.Cart
	locks   *keymutex.KeyedMutex
	cleared map[uint]bool
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{
		byEmail: make(map[string]uint),
		carts:   make(map[uint]*cart.Cart),
		locks:   keymutex.New(),
		cleared: make(map[uint]bool),
	}
}

func (f *fakeCarts) put(email string, c *cart.Cart) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail[email] = c.ID
	f.carts[c.ID] = c
}

func cloneCart(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = make([]cart.CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

func (f *fakeCarts) GetCartByEmail(ctx context.Context, email string) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("Cart", "email", email)
	}
	return cloneCart(f.carts[id]), nil
}

func (f *fakeCarts) GetCartByID(ctx context.Context, cartID uint) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[cartID]
	if !ok {
		return nil, apperrors.NotFound("Cart", "cartId", cartID)
	}
	return cloneCart(c), nil
}

func (f *fakeCarts) LockCart(cartID uint) func() {
	return f.locks.Lock(fmt.Sprintf("cart:%d", cartID))
}

func (f *fakeCarts) CheckoutClear(ctx context.Context, c *cart.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.carts[c.ID]
	if !ok {
		return apperrors.NotFound("Cart", "cartId", c.ID)
	}
	stored.Items = nil
	stored.TotalPrice = decimal.Zero
	f.cleared[c.ID] = true
	return nil
}

func (f *fakeCarts) wasCleared(cartID uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared[cartID]
}

// fakeStockCatalog is an in-memory Catalog with conditional decrements
type fakeStockCatalog struct {
	mu       sync.Mutex
	products map[uint]*catalog.Product
}

func newFakeStockCatalog() *fakeStockCatalog {
	return &fakeStockCatalog{products: make(map[uint]*catalog.Product)}
}

func (f *fakeStockCatalog) put(p catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.products[p.ID] = &cp
}

func (f *fakeStockCatalog) stock(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].StockQuantity
}

func (f *fakeStockCatalog) GetProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product", "productId", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStockCatalog) DecrementStock(ctx context.Context, id uint, qty int, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return apperrors.NotFound("Product", "productId", id)
	}
	if p.StockQuantity < qty {
		return apperrors.InsufficientStock("Product", id, p.StockQuantity, qty)
	}
	p.StockQuantity -= qty
	return nil
}

func (f *fakeStockCatalog) RestoreStock(ctx context.Context, id uint, qty int, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return apperrors.NotFound("Product", "productId", id)
	}
	p.StockQuantity += qty
	return nil
}

// fakeAddresses is an in-memory Addresses collaborator
type fakeAddresses struct {
	addresses map[uint]*user.Address
}

func newFakeAddresses() *fakeAddresses {
	return &fakeAddresses{addresses: make(map[uint]*user.Address)}
}

func (f *fakeAddresses) put(a user.Address) {
	cp := a
	f.addresses[a.ID] = &cp
}

func (f *fakeAddresses) ByID(ctx context.Context, addressID uint) (*user.Address, error) {
	a, ok := f.addresses[addressID]
	if !ok {
		return nil, apperrors.NotFound("Address", "addressId", addressID)
	}
	cp := *a
	return &cp, nil
}

// fakeMailer records confirmation sends
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeMailer) SendOrderConfirmation(ctx context.Context, summary *Summary, address *user.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, summary.OrderNumber)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
