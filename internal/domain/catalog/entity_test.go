// internal/domain/catalog/entity_test.go
package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecalculateSpecialPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     string
	}{
		{"no discount", "19.99", "0", "19.99"},
		{"ten percent", "19.99", "10", "17.99"},
		{"half off", "100.00", "50", "50.00"},
		{"full discount", "42.00", "100", "0.00"},
		{"rounds to cents", "9.99", "33", "6.69"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: dec(tt.price), DiscountPercent: dec(tt.discount)}
			p.RecalculateSpecialPrice()
			assert.True(t, p.SpecialPrice.Equal(dec(tt.want)),
				"got %s, want %s", p.SpecialPrice, tt.want)
		})
	}
}

func TestIsInStock(t *testing.T) {
	assert.True(t, (&Product{StockQuantity: 1}).IsInStock())
	assert.False(t, (&Product{StockQuantity: 0}).IsInStock())
}
