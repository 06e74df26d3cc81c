package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// CartLineItem is a product flattened together with the quantity held in the cart.
type CartLineItem struct {
	Product
	Quantity int `json:"quantity"`
}

func NewLineItem(p Product, quantity int) CartLineItem {
	return CartLineItem{Product: p, Quantity: quantity}
}

// LineTotal returns price × quantity at full precision.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddQuantity adds b to a, saturating at math.MaxInt instead of wrapping.
func AddQuantity(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// TotalQuantity is the number of units across items.
func TotalQuantity(items []CartLineItem) int {
	n := 0
	for _, item := range items {
		n = AddQuantity(n, item.Quantity)
	}
	return n
}
