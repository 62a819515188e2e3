// internal/pkg/apperrors/errors_test.go
package apperrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Product not found with productId: 5", NotFound("Product", "productId", 5).Error())
	assert.Equal(t, "Cart already exists with userId: 3", AlreadyExists("Cart", "userId", 3).Error())
	assert.Equal(t, "Product 9 is out of stock", OutOfStock("Product", 9).Error())
	assert.Equal(t,
		"insufficient stock for Product 9: available 1, requested 4",
		InsufficientStock("Product", 9, 1, 4).Error())
	assert.Equal(t, "cart 2 has no items", EmptyCart(2).Error())
	assert.Equal(t, "invalid quantity -1 for CartItem", InvalidQuantity("CartItem", -1).Error())
}

func TestIsKindThroughWrapping(t *testing.T) {
	base := NotFound("Order", "orderId", 1)
	wrapped := fmt.Errorf("while loading summary: %w", base)

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindAlreadyExists))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestKindOfNonDomainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(fmt.Errorf("plain error")))
	assert.False(t, IsKind(nil, KindNotFound))
}
