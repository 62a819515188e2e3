// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"github.com/your-org/storefront-backend/internal/pkg/keymutex"
)

const (
	cartCacheKeyPrefix = "cart:user:"
	cartCacheTTL       = 15 * time.Minute
)

// Catalog is the slice of the product catalog the cart needs
type Catalog interface {
	GetProduct(ctx context.Context, id uint) (*CatalogProduct, error)
}

// CatalogProduct carries the product fields the cart snapshots from the
// catalog when a line is created or requantified.
type CatalogProduct struct {
	ID              uint
	Name            string
	SpecialPrice    decimal.Decimal
	DiscountPercent decimal.Decimal
	StockQuantity   int
}

// Service handles cart business logic. All mutations of a given cart are
// serialized through a per-cart lock so the incremental total never races.
type Service struct {
	store   Store
	catalog Catalog
	cache   *redis.Client
	locks   *keymutex.KeyedMutex
	log     *logrus.Logger
}

// NewService creates a new cart service. cache may be nil, in which case
// snapshot caching is skipped.
func NewService(store Store, catalog Catalog, cache *redis.Client, locks *keymutex.KeyedMutex, log *logrus.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		cache:   cache,
		locks:   locks,
		log:     log,
	}
}

// LockCart takes the per-cart mutation lock and returns its release func.
// Exposed so the checkout coordinator can hold the lock across reservation,
// order creation, and cart clearing.
func (s *Service) LockCart(cartID uint) func() {
	return s.locks.Lock(fmt.Sprintf("cart:%d", cartID))
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// use. Safe under concurrent first calls: the unique index on user_id makes
// one creator win and the loser re-reads.
func (s *Service) GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error) {
	cart, err := s.store.ByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	cart = &Cart{UserID: userID, TotalPrice: decimal.Zero}
	if err := s.store.Create(ctx, cart); err != nil {
		if apperrors.IsKind(err, apperrors.KindAlreadyExists) {
			return s.store.ByUserID(ctx, userID)
		}
		return nil, err
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the user's cart as a new
// line, snapshotting the product's current special price and discount.
// Adding a product already in the cart is rejected.
func (s *Service) AddItem(ctx context.Context, userID, productID uint, quantity int) (*Snapshot, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidQuantity("CartItem", quantity)
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.LockCart(cart.ID)
	defer unlock()

	cart, err = s.store.ByID(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	// A duplicate line is reported before any stock condition.
	if cart.ItemFor(productID) != nil {
		return nil, apperrors.AlreadyExists("CartItem", "productId", productID)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity == 0 {
		return nil, apperrors.OutOfStock("Product", productID)
	}
	if product.StockQuantity < quantity {
		return nil, apperrors.InsufficientStock("Product", productID, product.StockQuantity, quantity)
	}

	item := CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.SpecialPrice,
		Discount:  product.DiscountPercent,
	}
	cart.Items = append(cart.Items, item)
	s.applyLineChange(cart, decimal.Zero, item.LineTotal())

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, cart.UserID)

	s.log.WithFields(logrus.Fields{
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   quantity,
	}).Info("Item added to cart")

	return s.buildSnapshot(ctx, cart), nil
}

// ChangeQuantity applies a signed delta to an existing cart line. A zero
// delta is a no-op. If the resulting quantity drops to zero or below the
// line is removed. The line's unit price and discount are refreshed from
// the catalog on every requantify.
func (s *Service) ChangeQuantity(ctx context.Context, userID, productID uint, delta int) (*Snapshot, error) {
	cart, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlock := s.LockCart(cart.ID)
	defer unlock()

	cart, err = s.store.ByID(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	item := cart.ItemFor(productID)
	if item == nil {
		return nil, apperrors.NotFound("CartItem", "productId", productID)
	}

	if delta == 0 {
		return s.buildSnapshot(ctx, cart), nil
	}

	newQuantity := item.Quantity + delta
	if newQuantity <= 0 {
		return s.removeLine(ctx, cart, productID)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < newQuantity {
		return nil, apperrors.InsufficientStock("Product", productID, product.StockQuantity, newQuantity)
	}

	oldTotal := item.LineTotal()
	item.Quantity = newQuantity
	item.UnitPrice = product.SpecialPrice
	item.Discount = product.DiscountPercent
	s.applyLineChange(cart, oldTotal, item.LineTotal())

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, cart.UserID)

	return s.buildSnapshot(ctx, cart), nil
}

// RemoveItem deletes a product line from a cart
func (s *Service) RemoveItem(ctx context.Context, cartID, productID uint) (*Snapshot, error) {
	unlock := s.LockCart(cartID)
	defer unlock()

	cart, err := s.store.ByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.ItemFor(productID) == nil {
		return nil, apperrors.NotFound("CartItem", "productId", productID)
	}

	return s.removeLine(ctx, cart, productID)
}

// removeLine drops one line, adjusts the total, and persists. Caller holds
// the cart lock.
func (s *Service) removeLine(ctx context.Context, cart *Cart, productID uint) (*Snapshot, error) {
	items := cart.Items[:0]
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			s.applyLineChange(cart, cart.Items[i].LineTotal(), decimal.Zero)
			continue
		}
		items = append(items, cart.Items[i])
	}
	cart.Items = items

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, cart.UserID)

	s.log.WithFields(logrus.Fields{
		"cart_id":    cart.ID,
		"product_id": productID,
	}).Info("Item removed from cart")

	return s.buildSnapshot(ctx, cart), nil
}

// Clear empties the user's cart
func (s *Service) Clear(ctx context.Context, userID uint) error {
	cart, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		return err
	}

	unlock := s.LockCart(cart.ID)
	defer unlock()

	cart, err = s.store.ByID(ctx, cart.ID)
	if err != nil {
		return err
	}
	return s.clear(ctx, cart)
}

// CheckoutClear empties an already-loaded cart without taking the lock.
// The checkout coordinator calls it while holding the cart lock itself.
func (s *Service) CheckoutClear(ctx context.Context, cart *Cart) error {
	return s.clear(ctx, cart)
}

func (s *Service) clear(ctx context.Context, cart *Cart) error {
	cart.Items = nil
	cart.TotalPrice = decimal.Zero
	if err := s.store.Save(ctx, cart); err != nil {
		return err
	}
	s.invalidateCache(ctx, cart.UserID)
	return nil
}

// GetCart returns the user's cart snapshot, cache-aside through Redis.
// Reading is a pure projection: a user with no cart gets NotFound, carts
// come into existence only through AddItem.
func (s *Service) GetCart(ctx context.Context, userID uint) (*Snapshot, error) {
	if snap := s.cachedSnapshot(ctx, userID); snap != nil {
		return snap, nil
	}

	cart, err := s.store.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := s.buildSnapshot(ctx, cart)
	s.cacheSnapshot(ctx, userID, snap)
	return snap, nil
}

// GetCartByEmail resolves a cart by its owner's email. Used by checkout,
// which identifies the buyer by email rather than ambient session state.
func (s *Service) GetCartByEmail(ctx context.Context, email string) (*Cart, error) {
	return s.store.ByEmail(ctx, email)
}

// GetCartByID loads a cart aggregate by ID
func (s *Service) GetCartByID(ctx context.Context, cartID uint) (*Cart, error) {
	return s.store.ByID(ctx, cartID)
}

// ListCarts returns snapshots of every cart in the system, or NotFound
// when none exist
func (s *Service) ListCarts(ctx context.Context) ([]Snapshot, error) {
	carts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, apperrors.NotFound("Cart", "", nil)
	}
	snaps := make([]Snapshot, 0, len(carts))
	for i := range carts {
		snaps = append(snaps, *s.buildSnapshot(ctx, &carts[i]))
	}
	return snaps, nil
}

// OnPriceChanged re-prices the product's line in every open cart and fixes
// each cart's total, one cart at a time under that cart's lock.
func (s *Service) OnPriceChanged(ctx context.Context, productID uint, newSpecialPrice, newDiscount decimal.Decimal) error {
	cartIDs, err := s.store.WithProduct(ctx, productID)
	if err != nil {
		return err
	}

	for _, cartID := range cartIDs {
		if err := s.repriceCart(ctx, cartID, productID, newSpecialPrice, newDiscount); err != nil {
			return fmt.Errorf("failed to reprice cart %d: %w", cartID, err)
		}
	}

	if len(cartIDs) > 0 {
		s.log.WithFields(logrus.Fields{
			"product_id": productID,
			"carts":      len(cartIDs),
		}).Info("Cart prices reconciled after product price change")
	}
	return nil
}

func (s *Service) repriceCart(ctx context.Context, cartID, productID uint, price, discount decimal.Decimal) error {
	unlock := s.LockCart(cartID)
	defer unlock()

	cart, err := s.store.ByID(ctx, cartID)
	if err != nil {
		// The cart may have emptied or checked out since WithProduct ran.
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil
		}
		return err
	}

	item := cart.ItemFor(productID)
	if item == nil {
		return nil
	}

	oldTotal := item.LineTotal()
	item.UnitPrice = price
	item.Discount = discount
	s.applyLineChange(cart, oldTotal, item.LineTotal())

	if err := s.store.Save(ctx, cart); err != nil {
		return err
	}
	s.invalidateCache(ctx, cart.UserID)
	return nil
}

// applyLineChange is the single place the cart total moves: subtract the
// line's previous contribution, add its new one.
func (s *Service) applyLineChange(cart *Cart, oldLineTotal, newLineTotal decimal.Decimal) {
	cart.TotalPrice = cart.TotalPrice.Sub(oldLineTotal).Add(newLineTotal)
}

// buildSnapshot resolves product names and shapes the read model
func (s *Service) buildSnapshot(ctx context.Context, cart *Cart) *Snapshot {
	snap := &Snapshot{
		CartID:     cart.ID,
		UserID:     cart.UserID,
		TotalPrice: cart.TotalPrice,
		Items:      make([]ItemSnapshot, 0, len(cart.Items)),
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		name := ""
		if product, err := s.catalog.GetProduct(ctx, item.ProductID); err == nil {
			name = product.Name
		}
		snap.Items = append(snap.Items, ItemSnapshot{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			LineTotal:   item.LineTotal(),
		})
	}
	return snap
}

func (s *Service) cachedSnapshot(ctx context.Context, userID uint) *Snapshot {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, cartCacheKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return &snap
}

func (s *Service) cacheSnapshot(ctx context.Context, userID uint, snap *Snapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cartCacheKey(userID), data, cartCacheTTL).Err(); err != nil {
		s.log.WithError(err).Warn("Failed to cache cart snapshot")
	}
}

func (s *Service) invalidateCache(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cartCacheKey(userID)).Err(); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate cart cache")
	}
}

func cartCacheKey(userID uint) string {
	return fmt.Sprintf("%s%d", cartCacheKeyPrefix, userID)
}
