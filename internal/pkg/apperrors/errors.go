// internal/pkg/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so the boundary layer can map it to a
// transport-specific response without parsing messages.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindAlreadyExists     Kind = "already_exists"
	KindOutOfStock        Kind = "out_of_stock"
	KindInsufficientStock Kind = "insufficient_stock"
	KindEmptyCart         Kind = "empty_cart"
	KindInvalidQuantity   Kind = "invalid_quantity"
)

// Error is a typed domain error carrying enough context (entity kind,
// identifying field, value) to render a precise message.
type Error struct {
	Kind   Kind
	Entity string
	Field  string
	Value  interface{}

	// Stock context, set for OutOfStock / InsufficientStock.
	Available int
	Requested int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		if e.Field != "" {
			return fmt.Sprintf("%s not found with %s: %v", e.Entity, e.Field, e.Value)
		}
		return fmt.Sprintf("%s not found", e.Entity)
	case KindAlreadyExists:
		return fmt.Sprintf("%s already exists with %s: %v", e.Entity, e.Field, e.Value)
	case KindOutOfStock:
		return fmt.Sprintf("%s %v is out of stock", e.Entity, e.Value)
	case KindInsufficientStock:
		return fmt.Sprintf("insufficient stock for %s %v: available %d, requested %d",
			e.Entity, e.Value, e.Available, e.Requested)
	case KindEmptyCart:
		return fmt.Sprintf("cart %v has no items", e.Value)
	case KindInvalidQuantity:
		return fmt.Sprintf("invalid quantity %v for %s", e.Value, e.Entity)
	}
	return fmt.Sprintf("%s: %s %v", e.Kind, e.Entity, e.Value)
}

// NotFound reports a missing entity identified by field=value.
func NotFound(entity, field string, value interface{}) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Field: field, Value: value}
}

// AlreadyExists reports a uniqueness violation on field=value.
func AlreadyExists(entity, field string, value interface{}) *Error {
	return &Error{Kind: KindAlreadyExists, Entity: entity, Field: field, Value: value}
}

// OutOfStock reports a product with zero available stock.
func OutOfStock(entity string, id interface{}) *Error {
	return &Error{Kind: KindOutOfStock, Entity: entity, Value: id}
}

// InsufficientStock reports demand exceeding the available quantity.
func InsufficientStock(entity string, id interface{}, available, requested int) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Entity:    entity,
		Value:     id,
		Available: available,
		Requested: requested,
	}
}

// EmptyCart reports a checkout attempted against a cart with no items.
func EmptyCart(cartID interface{}) *Error {
	return &Error{Kind: KindEmptyCart, Entity: "Cart", Value: cartID}
}

// InvalidQuantity reports a non-positive or otherwise unusable quantity.
func InvalidQuantity(entity string, quantity interface{}) *Error {
	return &Error{Kind: KindInvalidQuantity, Entity: entity, Value: quantity}
}

// IsKind reports whether err (or anything it wraps) is a domain error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the kind from err, or the empty string when err is not a
// domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
