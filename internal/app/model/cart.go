package model

import (
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the display data copied into the cart when a product is
// added. It is never refreshed from the catalog afterwards.
type ProductSnapshot struct {
	ProductID uint            `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
}

// LineItem is one product's presence in the cart. Quantity is always >= 1.
type LineItem struct {
	ProductID uint            `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns UnitPrice × Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is an ordered collection of line items with unique product ids.
// Insertion order is display order.
type Cart struct {
	Items []LineItem `json:"items"`
}

// TotalItemCount sums the quantities of all line items.
func (c Cart) TotalItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums UnitPrice × Quantity over all line items.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IndexOf returns the position of productID or -1.
func (c Cart) IndexOf(productID uint) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy safe to hand out of a lock.
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// Valid reports whether the cart satisfies its invariants: every quantity is
// positive, every product id is non-zero and unique.
func (c Cart) Valid() bool {
	seen := make(map[uint]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return false
		}
		if _, dup := seen[item.ProductID]; dup {
			return false
		}
		seen[item.ProductID] = struct{}{}
	}
	return true
}
