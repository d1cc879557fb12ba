package domain

// LineItem is one product entry in the cart with its quantity and the
// price snapshot taken when the product was first added.
type LineItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	Image     string   `json:"image"`
	Quantity  int      `json:"quantity"`
}

// EffectiveUnitPrice returns SalePrice when the item is discounted,
// Price otherwise.
func (li LineItem) EffectiveUnitPrice() float64 {
	if li.SalePrice != nil {
		return *li.SalePrice
	}
	return li.Price
}

// Count sums the quantities of all items.
func Count(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums effective unit price times quantity over all items.
// Values stay in fractional currency units; rounding is a presentation
// concern.
func Subtotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.EffectiveUnitPrice() * float64(item.Quantity)
	}
	return total
}
