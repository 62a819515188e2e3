// internal/domain/cart/mocks_test.go
package cart

import (
	"context"
	"sync"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// memStore is an in-memory Store. It hands out deep copies the way a real
// database load would, so tests exercise the re-read-under-lock paths.
type memStore struct {
	mu       sync.Mutex
	carts    map[uint]*Cart
	byUser   map[uint]uint   // userID -> cartID
	emails   map[string]uint // email -> userID
	nextCart uint
	nextItem uint
}

func newMemStore() *memStore {
	return &memStore{
		carts:  make(map[uint]*Cart),
		byUser: make(map[uint]uint),
		emails: make(map[string]uint),
	}
}

func (s *memStore) registerEmail(email string, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails[email] = userID
}

func cloneCart(c *Cart) *Cart {
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}

func (s *memStore) ByID(ctx context.Context, cartID uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[cartID]
	if !ok {
		return nil, apperrors.NotFound("Cart", "cartId", cartID)
	}
	return cloneCart(c), nil
}

func (s *memStore) ByUserID(ctx context.Context, userID uint) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUser[userID]
	if !ok {
		return nil, apperrors.NotFound("Cart", "userId", userID)
	}
	return cloneCart(s.carts[id]), nil
}

func (s *memStore) ByEmail(ctx context.Context, email string) (*Cart, error) {
	s.mu.Lock()
	userID, ok := s.emails[email]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.NotFound("Cart", "email", email)
	}
	return s.ByUserID(ctx, userID)
}

func (s *memStore) WithProduct(ctx context.Context, productID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for id, c := range s.carts {
		for i := range c.Items {
			if c.Items[i].ProductID == productID {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

func (s *memStore) List(ctx context.Context) ([]Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Cart, 0, len(s.carts))
	for _, c := range s.carts {
		out = append(out, *cloneCart(c))
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[cart.UserID]; ok {
		return apperrors.AlreadyExists("Cart", "userId", cart.UserID)
	}
	s.nextCart++
	cart.ID = s.nextCart
	s.carts[cart.ID] = cloneCart(cart)
	s.byUser[cart.UserID] = cart.ID
	return nil
}

func (s *memStore) Save(ctx context.Context, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cart.ID]; !ok {
		return apperrors.NotFound("Cart", "cartId", cart.ID)
	}
	for i := range cart.Items {
		if cart.Items[i].ID == 0 {
			s.nextItem++
			cart.Items[i].ID = s.nextItem
		}
	}
	s.carts[cart.ID] = cloneCart(cart)
	return nil
}

// fakeCatalog is an in-memory Catalog
type fakeCatalog struct {
	mu       sync.Mutex
	products map[uint]CatalogProduct
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: make(map[uint]CatalogProduct)}
}

func (f *fakeCatalog) put(p CatalogProduct) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id uint) (*CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("Product", "productId", id)
	}
	cp := p
	return &cp, nil
}
