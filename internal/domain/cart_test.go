package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func salePrice(v float64) *float64 {
	return &v
}

func TestCount_SumsQuantitiesIgnoringPrice(t *testing.T) {
	items := []LineItem{
		{ID: "food-1", Price: 3.50, Quantity: 2},
		{ID: "toy-9", Price: 120.00, Quantity: 5},
	}

	assert.Equal(t, 7, Count(items))
}

func TestCount_EmptyCart(t *testing.T) {
	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 0, Count([]LineItem{}))
}

func TestSubtotal_UsesSalePriceWhenSet(t *testing.T) {
	items := []LineItem{
		{ID: "bed-3", Price: 20, SalePrice: salePrice(15), Quantity: 3},
	}

	assert.InDelta(t, 45.00, Subtotal(items), 1e-9)
}

func TestSubtotal_RegularPriceWhenNoSale(t *testing.T) {
	items := []LineItem{
		{ID: "bed-3", Price: 20, Quantity: 3},
	}

	assert.InDelta(t, 60.00, Subtotal(items), 1e-9)
}

func TestSubtotal_MixedItems(t *testing.T) {
	items := []LineItem{
		{ID: "a", Price: 9.99, Quantity: 2},
		{ID: "b", Price: 30, SalePrice: salePrice(24.50), Quantity: 1},
	}

	assert.InDelta(t, 9.99*2+24.50, Subtotal(items), 1e-9)
}

func TestEffectiveUnitPrice(t *testing.T) {
	onSale := LineItem{Price: 10, SalePrice: salePrice(7.5)}
	regular := LineItem{Price: 10}

	assert.InDelta(t, 7.5, onSale.EffectiveUnitPrice(), 1e-9)
	assert.InDelta(t, 10, regular.EffectiveUnitPrice(), 1e-9)
}

func TestNewCheckoutSnapshot_ResolvesEffectivePrices(t *testing.T) {
	items := []LineItem{
		{ID: "food-1", Name: "Pienso adulto", Price: 25, Quantity: 2},
		{ID: "toy-9", Name: "Pelota", Price: 8, SalePrice: salePrice(5), Quantity: 3},
	}

	snapshot := NewCheckoutSnapshot(items)

	assert.Len(t, snapshot.Items, 2)
	assert.Equal(t, "EUR", snapshot.Currency)
	assert.False(t, snapshot.CapturedAt.IsZero())

	assert.Equal(t, "food-1", snapshot.Items[0].ProductID)
	assert.InDelta(t, 25, snapshot.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 50, snapshot.Items[0].Subtotal, 1e-9)

	assert.InDelta(t, 5, snapshot.Items[1].UnitPrice, 1e-9)
	assert.InDelta(t, 15, snapshot.Items[1].Subtotal, 1e-9)

	assert.InDelta(t, 65, snapshot.TotalAmount, 1e-9)
}

func TestNewCheckoutSnapshot_EmptyCart(t *testing.T) {
	snapshot := NewCheckoutSnapshot(nil)

	assert.Empty(t, snapshot.Items)
	assert.InDelta(t, 0, snapshot.TotalAmount, 1e-9)
}
