package summary

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Rules holds the fixed-rate order rules.
type Rules struct {
	TaxRate               decimal.Decimal
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
}

var DefaultRules = Rules{
	TaxRate:               decimal.RequireFromString("0.09"),
	DeliveryFee:           decimal.RequireFromString("5.99"),
	FreeDeliveryThreshold: decimal.NewFromInt(100),
}

// Summary is derived from the cart on every read and never stored.
type Summary struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal

	// StandardDeliveryFee is the fee that applies when delivery is not free,
	// shown struck through next to the free delivery marker.
	StandardDeliveryFee decimal.Decimal
	FreeDelivery        bool
}

func Calculate(items []domain.CartLineItem) Summary {
	return DefaultRules.Calculate(items)
}

func (r Rules) Calculate(items []domain.CartLineItem) Summary {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	tax := subtotal.Mul(r.TaxRate)

	fee := r.DeliveryFee
	free := subtotal.GreaterThan(r.FreeDeliveryThreshold)
	if free {
		fee = decimal.Zero
	}

	return Summary{
		Subtotal:            subtotal,
		Tax:                 tax,
		DeliveryFee:         fee,
		Total:               subtotal.Add(tax).Add(fee),
		StandardDeliveryFee: r.DeliveryFee,
		FreeDelivery:        free,
	}
}
