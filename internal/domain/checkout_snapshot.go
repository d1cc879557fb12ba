package domain

import "time"

type CheckoutItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// CheckoutSnapshot represents the full cart state at checkout time, with
// sale prices already resolved into unit prices.
type CheckoutSnapshot struct {
	Items       []CheckoutItem `json:"items"`
	TotalAmount float64        `json:"total_amount"`
	Currency    string         `json:"currency"`
	CapturedAt  time.Time      `json:"captured_at"`
}

func NewCheckoutSnapshot(items []LineItem) CheckoutSnapshot {
	snapshot := CheckoutSnapshot{
		Items:      make([]CheckoutItem, 0, len(items)),
		Currency:   "EUR",
		CapturedAt: time.Now(),
	}
	for _, item := range items {
		unitPrice := item.EffectiveUnitPrice()
		lineTotal := unitPrice * float64(item.Quantity)
		snapshot.Items = append(snapshot.Items, CheckoutItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    lineTotal,
		})
		snapshot.TotalAmount += lineTotal
	}
	return snapshot
}
