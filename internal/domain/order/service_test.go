// internal/domain/order/service_test.go
package order

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

type fixture struct {
	svc     *Service
	store   *memOrderStore
	carts   *fakeCarts
	catalog *fakeStockCatalog
	addrs   *fakeAddresses
	mailer  *fakeMailer
}

func newFixture() *fixture {
	store := newMemOrderStore()
	carts := newFakeCarts()
	cat := newFakeStockCatalog()
	addrs := newFakeAddresses()
	mailer := &fakeMailer{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &fixture{
		svc:     NewService(store, carts, cat, addrs, mailer, log),
		store:   store,
		carts:   carts,
		catalog: cat,
		addrs:   addrs,
		mailer:  mailer,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) seedCart(email string, cartID uint, items ...cart.CartItem) *cart.Cart {
	total := decimal.Zero
	for i := range items {
		items[i].CartID = cartID
		total = total.Add(items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity))))
	}
	c := &cart.Cart{ID: cartID, UserID: cartID, TotalPrice: total, Items: items}
	f.carts.put(email, c)
	return c
}

func validRequest(email string) *CheckoutRequest {
	return &CheckoutRequest{
		Email:            email,
		AddressID:        1,
		PaymentMethod:    "card",
		GatewayName:      "stripe",
		GatewayPaymentID: "pi_123",
		GatewayStatus:    "succeeded",
		GatewayMessage:   "approved",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, Name: "Hoodie", StockQuantity: 10})
	f.catalog.put(catalog.Product{ID: 2, Name: "Mug", StockQuantity: 10})
	f.addrs.put(user.Address{ID: 1, Street: "1 Main St", City: "Lisbon", Country: "PT", Pincode: "1000"})
	f.seedCart("buyer@example.com", 1,
		cart.CartItem{ProductID: 1, Quantity: 2, UnitPrice: dec("90.00"), Discount: dec("10")},
		cart.CartItem{ProductID: 2, Quantity: 7, UnitPrice: dec("10.00")},
	)

	summary, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(summary.OrderNumber, "ORD-"))
	assert.Equal(t, "buyer@example.com", summary.Email)
	assert.Equal(t, StatusAccepted, summary.Status)
	assert.True(t, summary.TotalAmount.Equal(dec("250.00")))
	assert.Equal(t, uint(1), summary.AddressID)

	require.Len(t, summary.Items, 2)
	assert.Equal(t, "Hoodie", summary.Items[0].ProductName)
	assert.True(t, summary.Items[0].OrderedProductPrice.Equal(dec("90.00")))
	assert.True(t, summary.Items[0].Discount.Equal(dec("10")))

	require.NotNil(t, summary.Payment)
	assert.Equal(t, "card", summary.Payment.Method)
	assert.Equal(t, "stripe", summary.Payment.GatewayName)
	assert.Equal(t, "pi_123", summary.Payment.GatewayPaymentID)

	// Stock reserved, cart cleared, confirmation sent.
	assert.Equal(t, 8, f.catalog.stock(1))
	assert.Equal(t, 3, f.catalog.stock(2))
	assert.True(t, f.carts.wasCleared(1))
	assert.Equal(t, 1, f.mailer.sentCount())
	assert.Equal(t, 1, f.store.count())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture()
	f.addrs.put(user.Address{ID: 1})
	f.seedCart("buyer@example.com", 1)

	_, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyCart))
	assert.Equal(t, 0, f.store.count())
}

func TestPlaceOrder_CartNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), validRequest("nobody@example.com"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestPlaceOrder_AddressNotFound(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, StockQuantity: 10})
	f.seedCart("buyer@example.com", 1,
		cart.CartItem{ProductID: 1, Quantity: 1, UnitPrice: dec("5.00")},
	)

	_, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Address is validated before any stock moves.
	assert.Equal(t, 10, f.catalog.stock(1))
	assert.False(t, f.carts.wasCleared(1))
}

func TestPlaceOrder_ReleasesStockWhenReservationFails(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, StockQuantity: 10})
	f.catalog.put(catalog.Product{ID: 2, StockQuantity: 1})
	f.addrs.put(user.Address{ID: 1})
	f.seedCart("buyer@example.com", 1,
		cart.CartItem{ProductID: 1, Quantity: 3, UnitPrice: dec("10.00")},
		cart.CartItem{ProductID: 2, Quantity: 5, UnitPrice: dec("2.00")},
	)

	_, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	require.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))

	// The first line's reservation is rolled back; nothing else changed.
	assert.Equal(t, 10, f.catalog.stock(1))
	assert.Equal(t, 1, f.catalog.stock(2))
	assert.Equal(t, 0, f.store.count())
	assert.False(t, f.carts.wasCleared(1))
	assert.Equal(t, 0, f.mailer.sentCount())
}

func TestPlaceOrder_ReleasesStockWhenStoreFails(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, StockQuantity: 10})
	f.addrs.put(user.Address{ID: 1})
	f.seedCart("buyer@example.com", 1,
		cart.CartItem{ProductID: 1, Quantity: 4, UnitPrice: dec("10.00")},
	)
	f.store.failNext = true

	_, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	require.Error(t, err)

	assert.Equal(t, 10, f.catalog.stock(1))
	assert.Equal(t, 0, f.store.count())
	assert.False(t, f.carts.wasCleared(1))
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, StockQuantity: 5})
	f.addrs.put(user.Address{ID: 1})

	emails := []string{"a@example.com", "b@example.com", "c@example.com", "d@example.com", "e@example.com"}
	for i, email := range emails {
		f.seedCart(email, uint(i+1),
			cart.CartItem{ProductID: 1, Quantity: 2, UnitPrice: dec("10.00")},
		)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for _, email := range emails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			if _, err := f.svc.PlaceOrder(context.Background(), validRequest(email)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(email)
	}
	wg.Wait()

	remaining := f.catalog.stock(1)
	assert.GreaterOrEqual(t, remaining, 0)
	assert.Equal(t, 5-2*successes, remaining)
	assert.Equal(t, 2, successes)
	assert.Equal(t, successes, f.store.count())
}

func TestOrderSnapshotSurvivesPriceChange(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, Name: "Hoodie", StockQuantity: 10})
	f.addrs.put(user.Address{ID: 1})
	f.seedCart("buyer@example.com", 1,
		cart.CartItem{ProductID: 1, Quantity: 1, UnitPrice: dec("49.00")},
	)

	placed, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	require.NoError(t, err)

	// Catalog moves on; the order's frozen price does not.
	f.catalog.put(catalog.Product{ID: 1, Name: "Hoodie", StockQuantity: 10, Price: dec("99.00")})

	got, err := f.svc.GetOrder(context.Background(), placed.OrderID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].OrderedProductPrice.Equal(dec("49.00")))
	assert.True(t, got.TotalAmount.Equal(dec("49.00")))
}

func TestGetOrderByNumber(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, StockQuantity: 10})
	f.addrs.put(user.Address{ID: 1})
	f.seedCart("buyer@example.com", 1,
		cart.CartItem{ProductID: 1, Quantity: 1, UnitPrice: dec("12.00")},
	)

	placed, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
	require.NoError(t, err)

	got, err := f.svc.GetOrderByNumber(context.Background(), placed.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderID, got.OrderID)

	_, err = f.svc.GetOrderByNumber(context.Background(), "ORD-00000000-missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGetUserOrders_Pagination(t *testing.T) {
	f := newFixture()
	f.catalog.put(catalog.Product{ID: 1, StockQuantity: 100})
	f.addrs.put(user.Address{ID: 1})

	for i := 0; i < 3; i++ {
		f.seedCart("buyer@example.com", 1,
			cart.CartItem{ProductID: 1, Quantity: 1, UnitPrice: dec("10.00")},
		)
		_, err := f.svc.PlaceOrder(context.Background(), validRequest("buyer@example.com"))
		require.NoError(t, err)
	}

	page1, err := f.svc.GetUserOrders(context.Background(), "buyer@example.com", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1.Orders, 2)
	assert.Equal(t, int64(3), page1.Pagination.Total)
	assert.True(t, page1.Pagination.HasNext)
	assert.False(t, page1.Pagination.HasPrev)

	page2, err := f.svc.GetUserOrders(context.Background(), "buyer@example.com", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Orders, 1)
	assert.False(t, page2.Pagination.HasNext)
	assert.True(t, page2.Pagination.HasPrev)
}
