package summary

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with exactly two fraction digits,
// rounding half away from zero: 35.0058 -> "$35.01".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func LineTotal(item domain.CartLineItem) string {
	return FormatMoney(item.LineTotal())
}

type View struct {
	Subtotal          string `json:"subtotal"`
	Tax               string `json:"tax"`
	DeliveryFee       string `json:"delivery_fee"`
	Total             string `json:"total"`
	FreeDelivery      bool   `json:"free_delivery"`
	WaivedDeliveryFee string `json:"waived_delivery_fee,omitempty"`
}

func (s Summary) View() View {
	v := View{
		Subtotal:     FormatMoney(s.Subtotal),
		Tax:          FormatMoney(s.Tax),
		DeliveryFee:  FormatMoney(s.DeliveryFee),
		Total:        FormatMoney(s.Total),
		FreeDelivery: s.FreeDelivery,
	}
	if s.FreeDelivery {
		v.WaivedDeliveryFee = FormatMoney(s.StandardDeliveryFee)
	}
	return v
}
