package domain

import "github.com/shopspring/decimal"

// MaxQuantity is the largest quantity a single cart row can hold.
const MaxQuantity = 99

// ClampQuantity limits q to MaxQuantity. Values below 1 are returned
// unchanged.
func ClampQuantity(q int) int {
	return min(q, MaxQuantity)
}

// LineItem is one product row in a cart. Name, UnitPrice and Image are
// copied from the catalog when the product is first added.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Subtotal returns UnitPrice × Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the shopping cart of one browser session. Items keep insertion
// order; Total is derived from Items by Recalculate and never accumulated.
type Cart struct {
	SessionID string          `json:"session_id"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// NewCart returns an empty cart for the session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		Total:     decimal.Zero,
	}
}

// Recalculate sets Total to the sum of all line subtotals.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	c.Total = total
}

// FindItemIndex returns the index of the item with the given product ID,
// or -1 if the product is not in the cart.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// ItemCount returns the total quantity over all rows.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no rows.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a deep copy that shares no slice memory with c.
func (c *Cart) Clone() *Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{
		SessionID: c.SessionID,
		Items:     items,
		Total:     c.Total,
	}
}
